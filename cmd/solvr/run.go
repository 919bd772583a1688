package main

import (
	"fmt"
)

// Run processes one URL synchronously. The PDF is left in the output
// directory because the process exits before the cleanup delay.
func (c *RunCmd) Run(deps *Dependencies) error {
	if err := deps.Config.Validate(); err != nil {
		return err
	}

	svc, err := wire(deps.Ctx, deps.Config, deps.Logger)
	if err != nil {
		return err
	}

	if err := svc.pipeline.Run(deps.Ctx, c.URL); err != nil {
		return err
	}
	fmt.Fprintf(deps.Stdout, "Solution for %s sent to %s\n", c.URL, deps.Config.Mail.Recipient)
	return nil
}
