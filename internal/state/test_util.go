package state

import (
	"context"
	"testing"

	"github.com/juju/errors"
	"github.com/temoto/kiosk/log2"
)

func NewTestContext(t testing.TB, confString string) (context.Context, *Global) {
	log := log2.NewTest(t, log2.LDebug)
	log.SetFlags(log2.LTestFlags)
	ctx, g := NewContext(log)
	cfg, err := ParseConfig(log, confString)
	if err != nil {
		t.Fatal(errors.ErrorStack(err))
	}
	if cfg.Persist.Root == "" {
		cfg.Persist.Root = t.TempDir()
	}
	g.MustInit(ctx, cfg)
	return ctx, g
}
