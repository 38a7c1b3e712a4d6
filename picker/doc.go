// Package picker provides an embeddable emoji picker for Bubble Tea programs.
//
// A Picker is a pointer-receiver component: the host forwards messages to
// Update and composites the picker over its own view with Root.Render.
//
//	p, _ := picker.New(cfg)
//	p.On(picker.EventSelect, func(v any) { sel := v.(emoji.Selection); ... })
//	cmd, err := p.ShowPicker()
//
// Emoji data loads in the background while a loading skeleton is shown. Show
// and hide requests are serialized: each transition (including its
// animation) completes before the next one starts.
package picker
