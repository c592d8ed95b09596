// Package config provides configuration loading for markup projects.
//
// Settings are read with Viper from markup.yaml, markup.yml or markup.json
// in the project directory, then overridden by MARKUP_ environment variables
// and finally by bound command-line flags. The file is optional; every key
// has a default.
//
// # Configuration File Structure
//
//	render:
//	  indent: 2
//	  drop_nil: false
//	server:
//	  host: localhost
//	  port: 3000
//	  watch: true
//	data:
//	  file: data.yaml
//	publish:
//	  target: s3
//	  dir: dist
//	  bucket: my-site
//	  prefix: www/
//	  region: eu-west-1
//	metrics:
//	  namespace: markup
//	tracing:
//	  tracer: markup
//
// # Environment Overrides
//
// Nested keys map to upper-case names joined by underscores:
//
//	MARKUP_SERVER_PORT=8080
//	MARKUP_PUBLISH_BUCKET=my-site
package config
