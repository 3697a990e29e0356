package main

import (
	"fxdeals/internal/app"
	"os"

	"github.com/sirupsen/logrus"
)

// @title FX Deals API
// @version 1.0
// @description Records FX deals one at a time or in bulk from CSV files.
// @host localhost:8080
// @BasePath /api/v1
func main() {
	if err := app.Run(); err != nil {
		logrus.WithError(err).Error("Application stopped with error")
		os.Exit(1)
	}
}
