package logging

import "log/slog"

// Module tags log records with the subsystem that produced them.
type Module string

func (m Module) String() string {
	return string(m)
}

// Environment is the deployment environment the service runs in.
type Environment string

const (
	EnvDev  Environment = "dev"
	EnvProd Environment = "prod"
)

// ServiceInfo identifies the running service in logs and telemetry.
type ServiceInfo struct {
	Name     string
	Version  string
	Revision string
}

func (s ServiceInfo) Attrs() []slog.Attr {
	attrs := []slog.Attr{
		slog.String("service", s.Name),
		slog.String("version", s.Version),
	}
	if s.Revision != "" {
		attrs = append(attrs, slog.String("revision", s.Revision))
	}
	return attrs
}
