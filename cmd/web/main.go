// @title           JobHunt API
// @version         1.0
// @description     REST API доски вакансий: регистрация с OTP, резюме, отклики и статусы.
// @contact.name    JobHunt
// @license.name    MIT
// @license.url     https://opensource.org/licenses/MIT
// @host            localhost:5000
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

package main

import "jobhunt_backend/internal/app"

func main() {
	app.Run()
}
