package main

import "github.com/versin01/vertical-systems-crm/internal/app"

// @title        Vertical Systems CRM API
// @version      1.0
// @description  Deals, pipeline board and sales reports.
// @BasePath     /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	app.Run()
}
