package main

import (
	"github.com/biosecret/go-todo/app"
	_ "github.com/biosecret/go-todo/docs"
)

//	@title			go-todo API
//	@version		1.0
//	@description	Session-based todo backend

func main() {
	// setup and run app
	err := app.SetupAndRunApp()
	if err != nil {
		panic(err)
	}
}
