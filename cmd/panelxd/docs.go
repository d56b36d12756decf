package main

// General API documentation for swaggo. Run `make swagger-gen` to generate docs.
//
// @title           panelxd API
// @version         1.0
// @description     GPU-resident generation daemon for comic stories, chat and panel images.
//
// @contact.name   panelxd maintainers
// @contact.url    https://github.com/your-org/panelxd
//
// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT
//
// @BasePath  /
//
// @schemes http
