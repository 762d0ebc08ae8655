package svcctx

import (
	"context"
	"log/slog"
	"testing"

	"github.com/jackzampolin/pdfsift/internal/session"
)

func TestServicesRoundTrip(t *testing.T) {
	sess := session.New(session.Config{})
	ctx := WithServices(context.Background(), &Services{Session: sess})

	if SessionFrom(ctx) != sess {
		t.Error("SessionFrom should return the attached session")
	}
	if ConfigFrom(ctx) != nil {
		t.Error("ConfigFrom should be nil without a config manager")
	}
	if HomeFrom(ctx) != nil {
		t.Error("HomeFrom should be nil when unset")
	}
}

func TestExtractorsWithoutServices(t *testing.T) {
	ctx := context.Background()
	if ServicesFrom(ctx) != nil || SessionFrom(ctx) != nil {
		t.Error("bare context should carry no services")
	}
	if LoggerFrom(ctx) != slog.Default() {
		t.Error("LoggerFrom should fall back to the default logger")
	}
}
