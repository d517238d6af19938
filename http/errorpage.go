package http

import (
	_ "embed"
	"io"
	"net/http"
)

//go:embed views/login.html
var loginView string

//go:embed views/upload.html
var uploadView string

const wrongPasswordHTML = `Wrong password <a href="/">Back</a>`

const htmlContentType = "text/html;charset=UTF-8"

func writeHTML(w http.ResponseWriter, code int, body string) {
	w.Header().Set("Content-Type", htmlContentType)
	w.WriteHeader(code)
	_, _ = io.WriteString(w, body)
}

func writeNotFound(w http.ResponseWriter) {
	WriteError(w, http.StatusNotFound, "404 Not Found")
}
