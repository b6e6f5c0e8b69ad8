package main

import (
	"fmt"

	"github.com/fatih/color"

	"github.com/rasim21-maker/synapse-framework/internal/events"
	"github.com/rasim21-maker/synapse-framework/internal/types"
)

// displayEvent prints one mitigation event in a consistent one-line format
func displayEvent(evt *events.Event) error {
	timestamp := evt.Timestamp.Format("15:04:05")

	componentColor := color.New(color.FgGreen)
	componentID := componentColor.Sprint(evt.Result.ComponentID)

	actionColor := actionColorFor(evt.Result.Action)
	action := actionColor.Sprint(string(evt.Result.Action))

	fmt.Printf("[%s] %s %s: %s\n", timestamp, componentID, action, evt.Result.Reason)
	return nil
}

func actionColorFor(action types.MitigationAction) *color.Color {
	switch action {
	case types.ActionQuarantine:
		return color.New(color.FgRed, color.Bold)
	case types.ActionBrake:
		return color.New(color.FgRed)
	case types.ActionThrottle:
		return color.New(color.FgYellow)
	case types.ActionAlert:
		return color.New(color.FgCyan)
	default:
		return color.New(color.FgMagenta)
	}
}
