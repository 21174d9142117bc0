package main

import (
	"encoding/json"
	"fmt"

	"github.com/fwojciec/ohscrap"
)

// Run executes the start command.
func (c *StartCmd) Run(deps *Dependencies) error {
	if deps.Location == "" {
		err := ohscrap.Errorf(ohscrap.EINVALID, "a location is required as an argument or in the job file")
		fmt.Fprintf(deps.Stderr, "error: %s\n", ohscrap.ErrorMessage(err))
		return err
	}

	result, err := deps.Runner.Start(deps.Ctx, deps.Location, deps.Selector)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", ohscrap.ErrorMessage(err))
		return err
	}

	return json.NewEncoder(deps.Stdout).Encode(result)
}
