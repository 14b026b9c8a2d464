package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/getmockd/sensormock/pkg/cli/internal/output"
	"github.com/getmockd/sensormock/pkg/cliconfig"
	"github.com/getmockd/sensormock/pkg/config"
	"github.com/getmockd/sensormock/pkg/engine"
	"github.com/getmockd/sensormock/pkg/logging"
	"github.com/getmockd/sensormock/pkg/metrics"
	"github.com/getmockd/sensormock/pkg/mirror"
	"github.com/getmockd/sensormock/pkg/mqtt"
)

// shutdownTimeout is the maximum time to wait for graceful shutdown.
const shutdownTimeout = 10 * time.Second

// serveFlags holds the parsed command-line flags for the serve command.
type serveFlags struct {
	configFile      string
	host            string
	port            int
	metricsPort     int
	deviceID        string
	streamCount     int
	streamInterval  time.Duration
	maxBodyBytes    int64
	logLevel        string
	logFormat       string
	mqttBroker      string
	mqttTopicPrefix string
	mqttPort        int
	kafkaBrokers    []string
	kafkaTopic      string
}

// serveFlagVals is the package-level instance bound to cobra flags.
var serveFlagVals serveFlags

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the mock telemetry server (foreground)",
	Long: `Start the mock telemetry server.

Endpoints:
  GET  /stream   newline-delimited JSON readings, one per interval
  GET  /data     one pretty-printed sensor snapshot
  GET  /         HTML status page
  POST /data     JSON ingest, echoed back

Values are resolved from flags, SENSORMOCK_* environment variables, --config,
.sensormockrc.yaml, the global config file and defaults, in that order.`,
	Example: `  # Start with defaults on 0.0.0.0:8080
  sensormock

  # Fast stream for integration tests
  sensormock serve --port 9000 --stream-interval 10ms --stream-count 20

  # Expose Prometheus metrics and mirror readings to an embedded MQTT broker
  sensormock serve --metrics-port 9100 --mqtt-port 1883

  # Mirror readings to Kafka
  sensormock serve --kafka-brokers localhost:9092 --kafka-topic rig.readings`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := resolveConfig(&serveFlagVals, cmd.Flags().Changed)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return runServe(ctx, cfg, cmd.OutOrStdout(), nil)
	},
}

func init() {
	f := &serveFlagVals
	defaults := cliconfig.NewDefault()
	flags := serveCmd.Flags()

	flags.StringVarP(&f.configFile, "config", "c", "", "Path to a YAML config file")
	flags.StringVar(&f.host, "host", defaults.Host, "Bind address")
	flags.IntVarP(&f.port, "port", "p", defaults.Port, "HTTP port (0 picks a free port)")
	flags.IntVar(&f.metricsPort, "metrics-port", defaults.MetricsPort, "Port for /metrics and /health (0 = disabled)")
	flags.StringVar(&f.deviceID, "device-id", defaults.DeviceID, "Device ID reported by GET /data")
	flags.IntVar(&f.streamCount, "stream-count", defaults.StreamCount, "Readings per /stream session")
	flags.DurationVar(&f.streamInterval, "stream-interval", defaults.StreamInterval, "Pause between readings")
	flags.Int64Var(&f.maxBodyBytes, "max-body-bytes", defaults.MaxBodyBytes, "Maximum POST /data body size")
	flags.StringVar(&f.logLevel, "log-level", defaults.LogLevel, "Log level (debug, info, warn, error)")
	flags.StringVar(&f.logFormat, "log-format", defaults.LogFormat, "Log format (text, json, console)")
	flags.StringVar(&f.mqttBroker, "mqtt-broker", "", "External MQTT broker URL for mirrored readings")
	flags.StringVar(&f.mqttTopicPrefix, "mqtt-topic-prefix", defaults.MQTTTopicPrefix, "Topic prefix for mirrored readings")
	flags.IntVar(&f.mqttPort, "mqtt-port", defaults.MQTTPort, "Embedded MQTT broker port (0 = disabled)")
	flags.StringSliceVar(&f.kafkaBrokers, "kafka-brokers", nil, "Kafka brokers for mirrored readings (comma-separated)")
	flags.StringVar(&f.kafkaTopic, "kafka-topic", defaults.KafkaTopic, "Kafka topic for mirrored readings")

	rootCmd.AddCommand(serveCmd)
}

// resolveConfig layers explicitly set flags over LoadAll and validates the
// result.
func resolveConfig(f *serveFlags, changed func(string) bool) (*cliconfig.CLIConfig, error) {
	cfg, err := cliconfig.LoadAll(f.configFile)
	if err != nil {
		return nil, err
	}
	applyServeFlags(cfg, f, changed)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyServeFlags(cfg *cliconfig.CLIConfig, f *serveFlags, changed func(string) bool) {
	apply := func(name, key string, set func()) {
		if changed(name) {
			set()
			cfg.Sources[key] = cliconfig.SourceFlag
		}
	}

	apply("host", "host", func() { cfg.Host = f.host })
	apply("port", "port", func() { cfg.Port = f.port })
	apply("metrics-port", "metricsPort", func() { cfg.MetricsPort = f.metricsPort })
	apply("device-id", "deviceId", func() { cfg.DeviceID = f.deviceID })
	apply("stream-count", "streamCount", func() { cfg.StreamCount = f.streamCount })
	apply("stream-interval", "streamInterval", func() { cfg.StreamInterval = f.streamInterval })
	apply("max-body-bytes", "maxBodyBytes", func() { cfg.MaxBodyBytes = f.maxBodyBytes })
	apply("log-level", "logLevel", func() { cfg.LogLevel = f.logLevel })
	apply("log-format", "logFormat", func() { cfg.LogFormat = f.logFormat })
	apply("mqtt-broker", "mqttBroker", func() { cfg.MQTTBroker = f.mqttBroker })
	apply("mqtt-topic-prefix", "mqttTopicPrefix", func() { cfg.MQTTTopicPrefix = f.mqttTopicPrefix })
	apply("mqtt-port", "mqttPort", func() { cfg.MQTTPort = f.mqttPort })
	apply("kafka-brokers", "kafkaBrokers", func() { cfg.KafkaBrokers = append([]string(nil), f.kafkaBrokers...) })
	apply("kafka-topic", "kafkaTopic", func() { cfg.KafkaTopic = f.kafkaTopic })
}

// serveContext holds the running components of one serve invocation.
type serveContext struct {
	cfg        *config.ServerConfiguration
	log        *slog.Logger
	metrics    *metrics.Metrics
	broker     *mqtt.Broker
	dispatcher *mirror.Dispatcher
	server     *engine.Server
}

// runServe starts every component, prints the banner to stdout and blocks
// until ctx is done. ready, when non-nil, is called once the server is
// listening.
func runServe(ctx context.Context, cliCfg *cliconfig.CLIConfig, stdout io.Writer, ready func(*engine.Server)) error {
	sctx := &serveContext{
		cfg:     cliCfg.ToServerConfiguration(),
		log:     logging.New(cliCfg.LoggingConfig()),
		metrics: metrics.New(),
	}

	if err := startBroker(ctx, sctx); err != nil {
		return err
	}

	if err := startMirror(ctx, sctx); err != nil {
		sctx.stopBroker()
		return err
	}

	opts := []engine.ServerOption{
		engine.WithLogger(sctx.log),
		engine.WithMetrics(sctx.metrics),
		engine.WithAccessLog(stdout),
	}
	if sctx.dispatcher != nil {
		opts = append(opts, engine.WithMirror(sctx.dispatcher))
	}
	sctx.server = engine.NewServer(sctx.cfg, opts...)

	if err := sctx.server.Start(); err != nil {
		sctx.closeMirror()
		sctx.stopBroker()
		return err
	}

	printBanner(stdout, newBannerInfo(sctx))
	if ready != nil {
		ready(sctx.server)
	}

	<-ctx.Done()
	fmt.Fprintln(stdout, "\nShutting down server...")
	sctx.shutdown()
	fmt.Fprintln(stdout, "Server stopped.")
	return nil
}

func startBroker(ctx context.Context, sctx *serveContext) error {
	if sctx.cfg.MQTTAddr() == "" {
		return nil
	}

	broker, err := mqtt.NewBroker(mqtt.Config{Host: sctx.cfg.Host, Port: sctx.cfg.MQTT.Port})
	if err != nil {
		return err
	}
	broker.SetLogger(sctx.log.With("component", "mqtt"))
	if err := broker.Start(ctx); err != nil {
		return err
	}
	sctx.broker = broker
	return nil
}

// startMirror connects every configured sink concurrently.
func startMirror(ctx context.Context, sctx *serveContext) error {
	cfg := sctx.cfg
	if !cfg.MirrorEnabled() {
		return nil
	}

	brokerURL := cfg.MQTT.Broker
	if brokerURL == "" && sctx.broker != nil {
		brokerURL = sctx.broker.URL()
	}

	var mqttSink *mirror.MQTTSink
	var kafkaSink *mirror.KafkaSink

	g, gctx := errgroup.WithContext(ctx)
	if brokerURL != "" {
		g.Go(func() error {
			s, err := mirror.NewMQTTSink(gctx, mirror.MQTTConfig{
				Broker: brokerURL,
				Topic:  mirror.ReadingsTopic(cfg.MQTT.TopicPrefix, cfg.DeviceID),
			})
			if err != nil {
				return fmt.Errorf("mqtt mirror: %w", err)
			}
			mqttSink = s
			return nil
		})
	}
	if len(cfg.Kafka.Brokers) > 0 {
		g.Go(func() error {
			s, err := mirror.NewKafkaSink(mirror.KafkaConfig{
				Brokers: cfg.Kafka.Brokers,
				Topic:   cfg.Kafka.Topic,
			})
			if err != nil {
				return fmt.Errorf("kafka mirror: %w", err)
			}
			kafkaSink = s
			return nil
		})
	}
	err := g.Wait()

	var sinks []mirror.Sink
	if mqttSink != nil {
		sinks = append(sinks, mqttSink)
	}
	if kafkaSink != nil {
		sinks = append(sinks, kafkaSink)
	}

	if err != nil {
		for _, s := range sinks {
			_ = s.Close()
		}
		return err
	}
	if len(sinks) == 0 {
		return nil
	}

	sctx.dispatcher = mirror.NewDispatcher(sinks,
		mirror.WithLogger(sctx.log.With("component", "mirror")),
		mirror.WithDropHook(sctx.metrics.MirrorDropped),
	)
	return nil
}

// shutdown stops the server first so no new readings are queued, then drains
// the mirror and stops the broker it may publish to.
func (sctx *serveContext) shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if sctx.server != nil {
		if err := sctx.server.Stop(ctx); err != nil {
			output.Warn("server shutdown error: %v", err)
		}
	}
	sctx.closeMirror()
	sctx.stopBroker()
}

func (sctx *serveContext) closeMirror() {
	if sctx.dispatcher == nil {
		return
	}
	if err := sctx.dispatcher.Close(); err != nil {
		output.Warn("mirror shutdown error: %v", err)
	}
}

func (sctx *serveContext) stopBroker() {
	if sctx.broker == nil {
		return
	}
	if err := sctx.broker.Stop(context.Background(), shutdownTimeout); err != nil && !errors.Is(err, context.Canceled) {
		output.Warn("MQTT broker shutdown error: %v", err)
	}
}
