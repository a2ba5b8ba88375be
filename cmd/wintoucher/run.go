// Package main starts the WinToucher tray application.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"

	"wintoucher/internal/app"
	"wintoucher/internal/config"
	"wintoucher/internal/hook"
	"wintoucher/internal/inject"
	"wintoucher/internal/point"
	"wintoucher/internal/session"
)

// run wires the application and blocks until shutdown.
func run(debug bool) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if debug {
		log.Printf("debug: enabled")
	}
	logStartup(cfg)

	sess := session.New(cfg.ListenerEnabled)
	surface := inject.NewSession()
	source := hook.NewSource()

	appInstance, err := app.New(cfg, sess, surface, source)
	if err != nil {
		return err
	}
	if err := appInstance.Start(); err != nil {
		return err
	}
	defer func() {
		if err := appInstance.Stop(); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	go func() {
		<-ctx.Done()
		appInstance.Quit()
	}()

	// The tray owns the foreground loop; Run returns on Quit.
	appInstance.Run()
	return nil
}

// logFatal prints and exits for startup failures.
func logFatal(err error) {
	log.Printf("fatal: %v", err)
	os.Exit(1)
}

// logStartup prints startup checks and configuration info.
func logStartup(cfg config.Config) {
	log.Printf("WinToucher starting")
	logConfigStatus(cfg)
	log.Printf("points path: %s", cfg.PointsPath)
	log.Printf("toggle key: %s (0x%02X)", point.KeyName(cfg.ToggleKey), cfg.ToggleKey)
	log.Printf("max contacts: %d", cfg.MaxContacts)
}

// logConfigStatus reports whether a config file was found.
func logConfigStatus(cfg config.Config) {
	path := cfg.DataDir + "/config.yaml"
	if fileExists(path) {
		log.Printf("config check: ok (%s)", path)
	} else {
		log.Printf("config check: missing (%s), using defaults", path)
	}
}

// fileExists reports whether a path exists and is a file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
