// Package config loads settings for the dropzone server and CLI.
//
// Values come from, in order of precedence: command-line flags bound with
// BindFlags, DROPZONE_* environment variables, an optional config file
// (JSON, YAML or TOML), and Default.
//
//	upload:
//	  backend: disk
//	  dir: /var/tmp/dropzone
//	  max_file_size: 10485760
//	  allowed_types: ["image/*", "application/pdf"]
//	widget:
//	  multiple: true
//	  accept: ["image/*", "application/pdf=.pdf", "image/png=.png|.apng"]
//
// Nested keys map to environment variables with dots replaced by
// underscores, so upload.max_file_size is DROPZONE_UPLOAD_MAX_FILE_SIZE.
package config
