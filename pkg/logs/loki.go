package logs

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/grafana/loki-client-go/loki"
	promconfig "github.com/prometheus/common/config"
	slogloki "github.com/samber/slog-loki/v3"

	"github.com/Alijeyrad/klinik_backend/config"
)

func newLokiHandler(cfg config.LokiConfig, level slog.Level) (slog.Handler, error) {
	endpoint := strings.TrimRight(cfg.Endpoint, "/") + "/loki/api/v1/push"

	lc, err := loki.NewDefaultConfig(endpoint)
	if err != nil {
		return nil, fmt.Errorf("loki config: %w", err)
	}
	lc.TenantID = cfg.TenantID
	if cfg.Username != "" {
		lc.Client.BasicAuth = &promconfig.BasicAuth{
			Username: cfg.Username,
			Password: promconfig.Secret(cfg.Password),
		}
	}

	client, err := loki.New(lc)
	if err != nil {
		return nil, fmt.Errorf("loki client: %w", err)
	}

	return slogloki.Option{Level: level, Client: client}.NewLokiHandler(), nil
}
