/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package main

import (
	"github.com/josephgoksu/TaskNest/cmd"
	"github.com/josephgoksu/TaskNest/internal/logger"
)

func main() {
	defer logger.HandlePanic()
	cmd.Execute()
}
