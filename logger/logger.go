package logger

import (
	"github.com/ONSdigital/ssdc-rm-form-response-adapter/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var Logger *zap.SugaredLogger

func getZapLevel(textLevel string) (zap.AtomicLevel, error) {
	level := zap.AtomicLevel{}
	err := level.UnmarshalText([]byte(textLevel))
	return level, err
}

func init() {
	// Initialise a default dev logger
	initLogger, _ := zap.NewDevelopment()
	Logger = initLogger.Sugar()
}

func encoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		MessageKey: "message",

		LevelKey:    "severity",
		EncodeLevel: zapcore.CapitalLevelEncoder,

		TimeKey:    "timestamp",
		EncodeTime: zapcore.RFC3339NanoTimeEncoder,

		CallerKey:    "caller",
		EncodeCaller: zapcore.ShortCallerEncoder,
	}
}

func ConfigureLogger(cfg *config.Configuration) error {
	return configureLogger(cfg, "stdout")
}

// ConfigureStderrLogger leaves stdout to command output.
func ConfigureStderrLogger(cfg *config.Configuration) error {
	return configureLogger(cfg, "stderr")
}

func configureLogger(cfg *config.Configuration, outputPath string) error {
	logLevel, err := getZapLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	initLogger, err := zap.Config{
		Encoding:         "json",
		Level:            logLevel,
		OutputPaths:      []string{outputPath},
		ErrorOutputPaths: []string{outputPath},
		EncoderConfig:    encoderConfig(),
	}.Build()
	if err != nil {
		return err
	}

	if cfg.LogFilePath != "" {
		// Also write to a rotated log file
		fileCore := zapcore.NewCore(
			zapcore.NewJSONEncoder(encoderConfig()),
			zapcore.AddSync(newRotatingFile(cfg)),
			logLevel,
		)
		initLogger = initLogger.WithOptions(zap.WrapCore(func(stdoutCore zapcore.Core) zapcore.Core {
			return zapcore.NewTee(stdoutCore, fileCore)
		}))
	}

	defer Logger.Sync()
	Logger = initLogger.Sugar()
	return nil
}

func newRotatingFile(cfg *config.Configuration) *lumberjack.Logger {
	return &lumberjack.Logger{
		Filename:   cfg.LogFilePath,
		MaxSize:    cfg.LogFileMaxSizeMB, // megabytes
		MaxAge:     cfg.LogFileMaxAgeDays,
		MaxBackups: cfg.LogFileMaxBackups,
		Compress:   true,
	}
}
