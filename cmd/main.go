package main

import (
	"os"

	"fxresolver/internal/app"

	"github.com/sirupsen/logrus"
)

// @title FX Resolver API
// @version 1.0
// @description Exchange rate resolution with cache, store and provider fallbacks.
// @BasePath /api/v1
func main() {
	if err := app.Run(); err != nil {
		logrus.WithError(err).Error("Application stopped with error")
		os.Exit(1)
	}
}
