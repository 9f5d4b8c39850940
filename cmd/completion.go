package cmd

import (
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// Completion describes the command line for shell completion.
func Completion() *complete.Command {
	files := predict.Files("*.json*")
	periods := predict.Set{"day", "week", "month", "quarter", "year"}
	return &complete.Command{
		Flags: map[string]complete.Predictor{
			"config":    predict.Files("*.yaml"),
			"db":        predict.Files("*.db"),
			"log-level": predict.Set{"debug", "info", "warn", "error"},
		},
		Sub: map[string]*complete.Command{
			"value": {Flags: map[string]complete.Predictor{
				"tx": files, "prices": files, "path": predict.Something,
				"tracked": predict.Something, "period": periods, "json": predict.Nothing,
			}},
			"positions": {Flags: map[string]complete.Predictor{
				"tx": files, "path": predict.Something, "d": predict.Something, "json": predict.Nothing,
			}},
			"densify": {Flags: map[string]complete.Predictor{
				"rows": files, "path": predict.Something, "i": predict.Something, "json": predict.Nothing,
			}},
			"crossovers": {Flags: map[string]complete.Predictor{
				"rows": files, "path": predict.Something, "i": predict.Something,
				"short": predict.Something, "long": predict.Something,
				"touches": predict.Nothing, "json": predict.Nothing,
			}},
			"import": {Flags: map[string]complete.Predictor{
				"tx": files, "prices": files, "rows": files, "i": predict.Something, "path": predict.Something,
			}},
			"watch": {Flags: map[string]complete.Predictor{
				"tx": files, "prices": files, "path": predict.Something, "now": predict.Nothing,
			}},
			"help":     {},
			"flags":    {},
			"commands": {},
		},
	}
}
