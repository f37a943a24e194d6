/*
rpinfo loads a render pass description, resolves its preserved attachments
and reports the result. With watch enabled it reports again whenever the
description changes.
*/
package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/spaghettifunk/anima-renderpass/engine"
	"github.com/spaghettifunk/anima-renderpass/engine/core"
)

func main() {
	configPath := flag.String("config", "", "path to the rpinfo TOML config")
	passName := flag.String("pass", "", "name of the render pass description to report")
	flag.Parse()

	config, err := engine.LoadConfig(*configPath)
	if err != nil {
		core.LogFatal(err.Error())
	}

	e, err := engine.New(config, *passName)
	if err != nil {
		core.LogFatal(err.Error())
	}

	if err := e.Initialize(); err != nil {
		core.LogFatal(err.Error())
	}

	// signal channel to capture system calls
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)

	// start shutdown goroutine
	go func() {
		// capture sigterm and other system call here
		<-sigCh
		_ = e.Shutdown()
	}()

	if err := e.Run(); err != nil {
		core.LogFatal(err.Error())
	}
	_ = e.Shutdown()
}
