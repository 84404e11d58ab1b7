package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/inkstone/inkstone/internal/app"
	"github.com/inkstone/inkstone/internal/config"
	"github.com/inkstone/inkstone/internal/schema"
	"github.com/inkstone/inkstone/internal/schema/luaext"
	"github.com/inkstone/inkstone/internal/term"
)

// Version information (set via ldflags during build).
var version = "dev"

var (
	cfgFile  string
	extDir   string
	template bool
	rtl      bool
	upload   bool
	collab   bool
)

var rootCmd = &cobra.Command{
	Use:     "inkstone",
	Short:   "A structured rich-text editor for the terminal",
	Long:    `Inkstone is a block-based rich-text editor: type / for the block menu, select text for the formatting toolbar, and drop Lua scripts in the extension directory to add your own blocks.`,
	Version: version,
	RunE:    runEditor,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"path to the settings file")
	rootCmd.Flags().StringVarP(&extDir, "extensions", "x", "",
		"directory of Lua extension scripts")
	rootCmd.Flags().BoolVar(&template, "template", false,
		"edit as a template")
	rootCmd.Flags().BoolVar(&rtl, "rtl", false,
		"right-to-left layout")
	rootCmd.Flags().BoolVar(&upload, "upload", false,
		"enable upload-backed blocks")
	rootCmd.Flags().BoolVar(&collab, "collab", false,
		"enable collaboration extensions")
}

func loadConfig() (config.Config, error) {
	cfg := config.Default()
	if cfgFile != "" {
		loaded, err := config.Load(cfgFile)
		if err != nil {
			return cfg, fmt.Errorf("loading settings: %w", err)
		}
		cfg = loaded
	}
	if extDir != "" {
		cfg.ExtensionDir = extDir
	}
	cfg.Template = cfg.Template || template
	cfg.RTL = cfg.RTL || rtl
	cfg.Upload = cfg.Upload || upload
	cfg.Collab = cfg.Collab || collab
	return cfg, nil
}

func runEditor(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	descriptors := cfg.Descriptors()
	if cfg.ExtensionDir != "" {
		loaded, err := luaext.LoadDir(cfg.ExtensionDir)
		if err != nil {
			return fmt.Errorf("loading extensions: %w", err)
		}
		descriptors = append(descriptors, loaded...)
	}

	screen, err := term.NewScreen()
	if err != nil {
		return fmt.Errorf("opening terminal: %w", err)
	}

	editor, err := app.New(app.Options{
		Config:      cfg,
		Screen:      screen,
		Descriptors: descriptors,
	})
	if err != nil {
		return err
	}

	if cfg.ExtensionDir != "" {
		w, err := luaext.Watch(cfg.ExtensionDir, func(loaded []*schema.Descriptor) {
			if err := editor.ReloadExtensions(append(cfg.Descriptors(), loaded...)); err != nil {
				editor.Notify("Extension reload failed")
			}
		})
		if err != nil {
			return fmt.Errorf("watching extensions: %w", err)
		}
		defer w.Close()
	}

	if cfgFile != "" {
		w, err := config.Watch(cfgFile, func(config.Config) {
			editor.Notify("Settings changed; restart to apply")
		})
		if err == nil {
			defer w.Close()
		}
	}

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-signals
		editor.Quit()
	}()

	return editor.Run()
}
