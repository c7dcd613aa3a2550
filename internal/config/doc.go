// Package config provides manifest parsing for Skiff apps.
//
// The manifest is stored in skiff.yaml at the app root. It drives the CLI
// (serve, validate, deploy) and can seed a router configuration.
//
// # Manifest Structure
//
//	title: My App
//	root: "#app"
//	base_url: ${APP_ORIGIN:-http://localhost:4400}
//	fetch_timeout: 10s
//	dir: public
//
//	dev:
//	  addr: :4400
//	  reload: true
//
//	deploy:
//	  bucket: my-app-assets
//	  prefix: app/
//	  region: us-east-1
//
//	routes:
//	  - path: /
//	  - path: /about
//	    view: /pages/about.html
//
// Environment variables in base_url and deploy values are expanded with
// ${VAR} or ${VAR:-default} syntax before validation.
//
// # Usage
//
//	cfg, err := config.Load("skiff.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println("Serving on", cfg.Dev.Addr)
package config
