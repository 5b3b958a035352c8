package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"transforminit/pkg/config"
	"transforminit/pkg/initializer"
	"transforminit/pkg/transform"
)

func main() {
	// Parse command line arguments
	configPath := flag.String("config", "transforminit.yaml", "YAML configuration describing the fixed and moving images")
	modeName := flag.String("mode", "", "Initialization mode: geometry, moments, origins or geometrytop (overrides the config)")
	outputPath := flag.String("output", "", "Transform parameter file (overrides the config)")
	writeDefault := flag.Bool("write-default-config", false, "Write a default configuration to -config and exit")
	verbose := flag.Bool("verbose", false, "Enable debug logging")
	flag.Parse()

	if *writeDefault {
		if err := config.CreateDefaultConfigFile(*configPath); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write default config: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Default configuration written to %s\n", *configPath)
		return
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *verbose {
		cfg.Output.Verbose = true
	}
	if *modeName != "" {
		mode, err := initializer.ParseMode(*modeName)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			flag.Usage()
			os.Exit(1)
		}
		cfg.Initialization.Mode = mode
	}
	if *outputPath != "" {
		cfg.Output.ParameterFile = *outputPath
	}

	logger := initLogger(cfg.Output.Verbose)
	logger.WithFields(logrus.Fields{
		"config": *configPath,
		"mode":   cfg.Initialization.Mode.String(),
	}).Info("Starting transform initialization")

	if err := run(cfg, logger); err != nil {
		logger.WithError(err).Fatal("Transform initialization failed")
	}
}

func run(cfg *config.Config, logger *logrus.Logger) error {
	fixed, fixedMask, err := cfg.Fixed.Load()
	if err != nil {
		return fmt.Errorf("failed to load fixed image: %w", err)
	}
	moving, movingMask, err := cfg.Moving.Load()
	if err != nil {
		return fmt.Errorf("failed to load moving image: %w", err)
	}
	logger.WithFields(logrus.Fields{
		"fixed_size":  fixed.Geometry.Size,
		"moving_size": moving.Geometry.Size,
	}).Debug("Images loaded")

	t := transform.NewCenteredAffine(fixed.Dimension())

	ti := initializer.New()
	ti.SetLogger(logger)
	ti.SetTransform(t)
	ti.SetFixedImage(fixed)
	ti.SetMovingImage(moving)
	ti.SetFixedImageMask(fixedMask)
	ti.SetMovingImageMask(movingMask)
	if err := ti.SetMode(cfg.Initialization.Mode); err != nil {
		return err
	}

	if err := ti.InitializeTransform(); err != nil {
		return err
	}

	if err := transform.SaveParameters(cfg.Output.ParameterFile, t, ti.Mode().String()); err != nil {
		return err
	}

	logger.WithFields(logrus.Fields{
		"center":      []float64(t.Center()),
		"translation": []float64(t.Translation()),
		"output":      cfg.Output.ParameterFile,
	}).Info("Transform parameters written")
	return nil
}

// initLogger initializes the logger with appropriate level
func initLogger(verbose bool) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)

	if verbose {
		logger.SetLevel(logrus.DebugLevel)
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
		logger.Debug("Debug logging enabled")
	} else {
		logger.SetLevel(logrus.InfoLevel)
		logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}

	return logger
}
