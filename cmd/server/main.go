package main

import "finquest/internal/app"

// @title           FinQuest Backend API
// @version         1.0
// @description     Personal finance tracking backend: OTP-verified accounts and transaction CRUD.
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	app.Run()
}
