// Package templates provides project scaffolding for `markup init`.
//
// # Available Templates
//
//   - basic: markup.yaml and data.yaml, publishing to ./dist
//   - s3: markup.yaml and data.yaml, publishing to an S3 bucket
//
// # Usage
//
//	tmpl, err := templates.Get("basic")
//	if err != nil {
//	    return err
//	}
//	if err := tmpl.Create(dir, templates.Config{SiteName: "Docs"}); err != nil {
//	    return err
//	}
//
// # Template Variables
//
//	{{.SiteName}}  - site_name in the data file
//	{{.Author}}    - author in the data file
//	{{.Bucket}}    - S3 bucket (s3 template)
//	{{.Region}}    - S3 region (s3 template)
package templates
