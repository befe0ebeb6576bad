//
// Copyright (C) 2026 The gamemaster-client Authors.  All rights reserved.
//
// gamemaster-client is licensed under the Apache License Version 2.0.
//
//

// Package dice provides the roll_dice tool used by tabletop sessions.
package dice

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/sommda/gamemaster-client/tool"
	"github.com/sommda/gamemaster-client/tool/function"
)

const maxCount = 100

// Input is the roll request. Count defaults to 1.
type Input struct {
	Sides int `json:"sides" description:"Number of faces on each die, e.g. 20 for a d20."`
	Count int `json:"count,omitempty" description:"How many dice to roll. Defaults to 1."`
}

// Output carries the individual rolls and their sum.
type Output struct {
	Rolls []int `json:"rolls"`
	Total int   `json:"total"`
}

// New returns the roll_dice tool. The intn parameter is the random source,
// nil means math/rand's global source; tests inject a deterministic one.
func New(intn func(n int) int) tool.CallableTool {
	if intn == nil {
		intn = rand.Intn
	}
	return function.New(func(ctx context.Context, in Input) (Output, error) {
		if in.Sides < 2 {
			return Output{}, fmt.Errorf("sides must be at least 2, got %d", in.Sides)
		}
		count := in.Count
		if count == 0 {
			count = 1
		}
		if count < 1 || count > maxCount {
			return Output{}, fmt.Errorf("count must be between 1 and %d, got %d", maxCount, count)
		}

		out := Output{Rolls: make([]int, 0, count)}
		for i := 0; i < count; i++ {
			roll := intn(in.Sides) + 1
			out.Rolls = append(out.Rolls, roll)
			out.Total += roll
		}
		return out, nil
	},
		function.WithName("roll_dice"),
		function.WithDescription("Roll one or more dice and return the individual rolls and their total."),
		function.WithTags("dice", "tabletop"),
	)
}
