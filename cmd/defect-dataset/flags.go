package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/menta2k/defect-dataset/pkg/geometry"
)

// mustGetString gets a string flag value or panics if the flag doesn't exist.
func mustGetString(cmd *cobra.Command, name string) string {
	val, err := cmd.Flags().GetString(name)
	if err != nil {
		panic(fmt.Sprintf("flag error for --%s: %v", name, err))
	}
	return val
}

// mustGetInt gets an int flag value or panics if the flag doesn't exist.
func mustGetInt(cmd *cobra.Command, name string) int {
	val, err := cmd.Flags().GetInt(name)
	if err != nil {
		panic(fmt.Sprintf("flag error for --%s: %v", name, err))
	}
	return val
}

// mustGetBool gets a bool flag value or panics if the flag doesn't exist.
func mustGetBool(cmd *cobra.Command, name string) bool {
	val, err := cmd.Flags().GetBool(name)
	if err != nil {
		panic(fmt.Sprintf("flag error for --%s: %v", name, err))
	}
	return val
}

// parseTileSize accepts "WxH" or a single number for a square tile
func parseTileSize(s string) (geometry.Size, error) {
	w, h, found := strings.Cut(strings.ToLower(strings.TrimSpace(s)), "x")
	if !found {
		h = w
	}
	width, err := strconv.Atoi(w)
	if err != nil {
		return geometry.Size{}, fmt.Errorf("invalid tile size %q", s)
	}
	height, err := strconv.Atoi(h)
	if err != nil {
		return geometry.Size{}, fmt.Errorf("invalid tile size %q", s)
	}
	if width < 1 || height < 1 {
		return geometry.Size{}, fmt.Errorf("tile size %q must be positive", s)
	}
	return geometry.Size{Width: width, Height: height}, nil
}
