package commands

import (
	"errors"
	"fmt"

	"github.com/dyluth/corkboard/internal/printer"
	"github.com/dyluth/corkboard/pkg/board"
)

// reportError prints err in the printer's format, choosing the title and
// suggestions by the kind of failure, and returns the error for Cobra.
func reportError(action string, err error) error {
	var verr *board.ValidationError
	var nferr *board.NotFoundError
	var cerr *board.CorruptRecordError

	switch {
	case errors.As(err, &verr):
		return printer.Error(
			"invalid input",
			verr.Error(),
			[]string{fmt.Sprintf("Board names and creators are limited to %d characters, comment bodies to %d.",
				board.MaxNameLength, board.MaxBodyLength)},
		)

	case errors.As(err, &nferr):
		return printer.Error(
			nferr.Error(),
			fmt.Sprintf("Could not %s: no such %s.", action, nferr.Kind),
			[]string{"Create the board first:\n  corkboard create --name <name> --creator <you>"},
		)

	case errors.As(err, &cerr):
		return printer.ErrorWithContext(
			"corrupt record",
			fmt.Sprintf("Could not %s: %v", action, err),
			map[string]string{"Key": cerr.Key, "Record": cerr.Kind + " " + cerr.ID},
			nil,
		)

	case board.IsUnavailable(err):
		return printer.ErrorWithContext(
			"store unavailable",
			fmt.Sprintf("Could not %s: %v", action, err),
			storeContext(),
			[]string{"Check that the store is running and reachable:\n  corkboard ping"},
		)

	default:
		return printer.Error(fmt.Sprintf("failed to %s", action), err.Error(), nil)
	}
}

func storeContext() map[string]string {
	if cfg == nil {
		return nil
	}
	ctx := map[string]string{"Store": cfg.Store}
	switch cfg.Store {
	case "redis":
		ctx["URL"] = cfg.Redis.URL
	case "sqlite":
		ctx["Path"] = cfg.SQLite.Path
	}
	if cfg.Namespace != "" {
		ctx["Namespace"] = cfg.Namespace
	}
	return ctx
}
