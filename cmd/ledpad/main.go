// Command ledpad reads two buttons and an analog joystick, cycles an RGB LED,
// animates a marker and publishes every change to MQTT.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sweeney/ledpad/internal/config"
	"github.com/sweeney/ledpad/internal/display"
	"github.com/sweeney/ledpad/internal/gpio"
	"github.com/sweeney/ledpad/internal/logic"
	"github.com/sweeney/ledpad/internal/mqtt"
	"github.com/sweeney/ledpad/internal/status"
	"github.com/sweeney/ledpad/internal/web"
)

var (
	configPath string
	logLevel   string

	flagPoll      time.Duration
	flagDebounce  time.Duration
	flagHeartbeat time.Duration
	flagBroker    string
	flagHTTP      string
	flagSource    string

	rootCmd = &cobra.Command{
		Use:           "ledpad",
		Short:         "Button and joystick driven RGB LED demo",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runDaemon,
	}
	runCmd = &cobra.Command{
		Use:   "run",
		Short: "Run the polling daemon",
		RunE:  runDaemon,
	}
	stateCmd = &cobra.Command{
		Use:   "state",
		Short: "Print one raw input sample and exit",
		RunE:  runState,
	}
	configCmd = &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration (defaults, file and flags) as TOML",
		RunE:  runConfig,
	}
)

func main() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config path. Optional TOML file layered over the built-in defaults")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error); overrides the config file")

	for _, cmd := range []*cobra.Command{rootCmd, runCmd, configCmd} {
		addRunFlags(cmd)
	}
	rootCmd.AddCommand(runCmd, stateCmd, configCmd)

	if err := rootCmd.Execute(); err != nil {
		logrus.Fatalf("fatal: %v", err)
	}
}

func addRunFlags(cmd *cobra.Command) {
	d := config.Default()
	cmd.Flags().DurationVar(&flagPoll, "poll", d.Poll(), "Input polling interval")
	cmd.Flags().DurationVar(&flagDebounce, "debounce", d.Debounce(), "Button debounce window")
	cmd.Flags().DurationVar(&flagHeartbeat, "heartbeat", d.Heartbeat(), "Heartbeat interval (0 to disable)")
	cmd.Flags().StringVar(&flagBroker, "broker", d.Broker, "MQTT broker address")
	cmd.Flags().StringVar(&flagHTTP, "http", d.HTTPAddr, "HTTP status address (empty to disable)")
	cmd.Flags().StringVar(&flagSource, "source", d.Source, "Input source driving the LED and marker (buttons, joystick, both)")
}

// loadConfig reads the config file and layers explicitly set flags over it.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return cfg, err
	}

	flags := cmd.Flags()
	if flags.Lookup("poll") != nil {
		if flags.Changed("poll") {
			cfg.PollMs = flagPoll.Milliseconds()
		}
		if flags.Changed("debounce") {
			cfg.DebounceMs = flagDebounce.Milliseconds()
		}
		if flags.Changed("heartbeat") {
			cfg.HeartbeatMs = flagHeartbeat.Milliseconds()
		}
		if flags.Changed("broker") {
			cfg.Broker = flagBroker
		}
		if flags.Changed("http") {
			cfg.HTTPAddr = flagHTTP
		}
		if flags.Changed("source") {
			cfg.Source = flagSource
		}
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func newLogger(level string) (*logrus.Logger, error) {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	log.SetLevel(lvl)
	return log, nil
}

func runConfig(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	data, err := config.Encode(cfg)
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}

func runState(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	sampler, err := gpio.NewRealSampler(cfg.GPIO.Chip, cfg.Pins(), cfg.Joystick.Device, cfg.Joystick.XChannel, cfg.Joystick.YChannel)
	if err != nil {
		return fmt.Errorf("init gpio: %w", err)
	}
	defer sampler.Close()

	s, err := sampler.Read()
	if err != nil {
		return fmt.Errorf("read inputs: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), formatSample(s, cfg.Settings()))
	return nil
}

// formatSample renders one raw sample the way the state command prints it.
func formatSample(s gpio.Sample, settings logic.Settings) string {
	dir := logic.Classify(s.X, s.Y, settings.Thresholds)
	return fmt.Sprintf("left: %s, right: %s, x: 0x%04X, y: 0x%04X, joystick: %s",
		buttonString(s.Left != settings.LeftActiveLow),
		buttonString(s.Right != settings.RightActiveLow),
		s.X, s.Y, dir)
}

func buttonString(pressed bool) string {
	if pressed {
		return "PRESSED"
	}
	return "RELEASED"
}

func runDaemon(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	if cfg.Overlapping() {
		log.WithFields(logrus.Fields{
			"left":  fmt.Sprintf("0x%04X", cfg.Joystick.LeftThreshold),
			"right": fmt.Sprintf("0x%04X", cfg.Joystick.RightThreshold),
		}).Warn("joystick X cutoffs overlap; every sample reads as left or right")
	}

	sampler, err := gpio.NewRealSampler(cfg.GPIO.Chip, cfg.Pins(), cfg.Joystick.Device, cfg.Joystick.XChannel, cfg.Joystick.YChannel)
	if err != nil {
		return fmt.Errorf("init gpio: %w", err)
	}
	defer sampler.Close()

	leds, err := gpio.NewRealLEDs(cfg.GPIO.Chip, cfg.Pins())
	if err != nil {
		return fmt.Errorf("init leds: %w", err)
	}
	defer leds.Close()

	disp := display.NewLogDisplay(log)
	display.Init(disp)

	clientID := "ledpad"
	if host, err := os.Hostname(); err == nil {
		clientID = "ledpad-" + host
	}
	publisher, err := mqtt.NewRealPublisher(cfg.Broker, clientID, log)
	if err != nil {
		return fmt.Errorf("init mqtt: %w", err)
	}
	defer publisher.Close()

	// Tracker exists before STARTUP so the event carries a full snapshot.
	tracker := status.NewTracker(time.Now(), statusConfig(cfg))
	tracker.SetMQTTConnected(publisher.IsConnected())

	snap := tracker.Snapshot()
	startup := mqtt.SystemEvent{
		Timestamp:  snap.Now,
		Event:      "STARTUP",
		Retained:   true,
		RawPayload: status.FormatStatusEvent(snap, "STARTUP", ""),
	}
	if err := publisher.PublishSystem(startup); err != nil {
		log.WithError(err).Warn("failed to publish startup event")
	} else {
		log.Info("published startup event")
	}

	if cfg.HTTPAddr != "" {
		srv := web.New(cfg.HTTPAddr, tracker)
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.WithError(err).Error("http server error")
			}
		}()
		defer srv.Shutdown(context.Background())
		log.WithField("addr", cfg.HTTPAddr).Info("http status server listening")
	}

	log.WithFields(logrus.Fields{
		"poll":      cfg.Poll(),
		"debounce":  cfg.Debounce(),
		"broker":    cfg.Broker,
		"heartbeat": cfg.Heartbeat(),
		"source":    cfg.Source,
	}).Info("started")

	ticker := time.NewTicker(cfg.Poll())
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	return runLoop(sampler, leds, disp, publisher, publisher, tracker, cfg.Settings(), cfg.Heartbeat(), log, time.Now, ticker.C, sigCh)
}

func statusConfig(cfg config.Config) status.Config {
	return status.Config{
		PollMs:      cfg.PollMs,
		DebounceMs:  cfg.DebounceMs,
		HeartbeatMs: cfg.HeartbeatMs,
		Broker:      cfg.Broker,
		HTTPAddr:    cfg.HTTPAddr,
		Source:      cfg.Source,
	}
}

func runLoop(sampler gpio.Sampler, leds gpio.LEDBank, disp display.Display, publisher mqtt.Publisher, mqttStatus mqtt.ConnectionStatus, tracker *status.Tracker, settings logic.Settings, heartbeat time.Duration, log logrus.FieldLogger, now func() time.Time, tick <-chan time.Time, sig <-chan os.Signal) error {
	ctrl := logic.NewController(settings, now())

	for {
		select {
		case s := <-sig:
			log.WithField("signal", s).Info("shutting down")
			signalName := "UNKNOWN"
			if s == syscall.SIGINT {
				signalName = "SIGINT"
			} else if s == syscall.SIGTERM {
				signalName = "SIGTERM"
			}
			event := mqtt.SystemEvent{
				Timestamp: now(),
				Event:     "SHUTDOWN",
				Reason:    signalName,
				Retained:  true,
			}
			if tracker != nil {
				if mqttStatus != nil {
					tracker.SetMQTTConnected(mqttStatus.IsConnected())
				}
				event.RawPayload = status.FormatStatusEvent(tracker.Snapshot(), "SHUTDOWN", signalName)
			}
			if err := publisher.PublishSystem(event); err != nil {
				log.WithError(err).Warn("failed to publish shutdown event")
			} else {
				log.Info("published shutdown event")
			}
			return nil

		case <-tick:
			t := now()
			sample, err := sampler.Read()
			if err != nil {
				log.WithError(err).Warn("input read error")
				if tracker != nil {
					tracker.RecordReadError()
				}
				continue
			}

			out := ctrl.Process(logic.Input{
				LeftRaw:  sample.Left,
				RightRaw: sample.Right,
				X:        sample.X,
				Y:        sample.Y,
				Time:     t,
			})

			if out.Transition != nil {
				for _, c := range out.Transition.Toggles() {
					if err := leds.Toggle(c); err != nil {
						log.WithError(err).WithField("color", c).Error("led toggle failed")
					}
				}
			}
			if out.Move != nil {
				display.Render(disp, *out.Move)
			}

			for _, event := range out.Events {
				log.WithFields(logrus.Fields{
					"event":  event.Type,
					"color":  event.Color,
					"marker": event.Marker,
				}).Info("event")
				if err := publisher.Publish(event); err != nil {
					log.WithError(err).Warn("publish error")
				}
			}

			if tracker != nil {
				tracker.Update(controllerState(ctrl))
				if mqttStatus != nil {
					tracker.SetMQTTConnected(mqttStatus.IsConnected())
				}
			}

			if hb := ctrl.CheckHeartbeat(t, heartbeat); hb != nil {
				log.WithFields(logrus.Fields{
					"uptime":        hb.Uptime,
					"left_pushed":   hb.Counts.LeftPushed,
					"right_pushed":  hb.Counts.RightPushed,
					"color_changed": hb.Counts.ColorChanged,
					"marker_moved":  hb.Counts.MarkerMoved,
				}).Info("heartbeat")

				hbEvent := mqtt.SystemEvent{
					Timestamp: hb.Timestamp,
					Event:     "HEARTBEAT",
				}
				if tracker != nil {
					hbEvent.RawPayload = status.FormatStatusEvent(tracker.Snapshot(), "HEARTBEAT", "")
				}
				if err := publisher.PublishSystem(hbEvent); err != nil {
					log.WithError(err).Warn("heartbeat publish error")
				}
			}
		}
	}
}

func controllerState(ctrl *logic.Controller) status.State {
	x, moves := ctrl.Marker()
	left, right := ctrl.Buttons()
	return status.State{
		Color:     ctrl.Color(),
		Marker:    x,
		Moves:     moves,
		Left:      left,
		Right:     right,
		Direction: ctrl.Direction(),
		Counts:    ctrl.EventCountsSnapshot(),
	}
}
