// Package clientcli provides a client library for iconbox servers.
//
// It logs in with the administrator password, uploads icons, reads the
// public manifest, and downloads stored icons. Uploads are normalized to a
// white 108x108 PNG before sending unless UploadOptions.Raw is set.
//
// # Basic Usage
//
//	client, err := clientcli.New(&clientcli.Config{
//		Endpoint: "http://localhost:8080",
//		Password: "secret",
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	result, err := client.Upload(ctx, clientcli.UploadOptions{
//		LocalPath: "./apple.jpg",
//		Name:      "apple",
//	})
//
// # Profile Configuration
//
// Profiles live in ~/.iconbox/config.yaml. Environment variables
// (ICONBOX_ENDPOINT, ICONBOX_PASSWORD) override the profile, and flags
// override both:
//
//	file, err := clientcli.LoadConfigFile(clientcli.DefaultConfigPath())
//	profile, err := file.GetProfile("")
//	cfg := clientcli.MergeConfig(clientcli.ConfigFromProfile(profile), clientcli.ConfigFromEnv())
package clientcli
