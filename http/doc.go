// Package http serves the icon registry over HTTP.
//
// # Routes
//
//	GET  /             login page, or the upload page with a valid session
//	POST /auth/login   form field "password"; sets the auth_token cookie
//	POST /api/upload   multipart fields "file" and "name"; session required
//	GET  /api/icon     JSON manifest of every icon, readable from any origin
//	GET  /file/{name}  stored icon bytes with a one year public cache
//
// Every other path, and any other verb on the routes above, is a plain
// 404. The login route is the exception and answers 405 to verbs other than
// POST.
//
// # Sessions
//
// The session is the auth_token cookie, checked by RequireSession. What the
// cookie holds depends on the session.Manager in HandlerConfig: the password
// itself by default, or a signed token.
//
// # Usage
//
//	handler := http.NewHandler(&http.HandlerConfig{
//	    Secret:        password,
//	    MaxUploadSize: 10 << 20,
//	    Logger:        slog.Default(),
//	}, service)
//	server := &nethttp.Server{Addr: ":8787", Handler: handler.Router()}
//
// Failures are short plain text bodies with fixed statuses; see HandleError.
package http
