package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/aretw0/cell"
)

var (
	setLat     float64
	setLon     float64
	setContent string
	setJSON    bool
)

var setCmd = &cobra.Command{
	Use:   "set",
	Short: "Replace a record through its store",
}

var setLocationCmd = &cobra.Command{
	Use:   "location",
	Short: "Move the location to --lat/--lon",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := resolveDir()
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		s, err := cell.OpenLocation(ctx, dir, openOptions()...)
		if err != nil {
			return fmt.Errorf("failed to open location: %w", err)
		}

		next, err := s.Update(ctx, func(l cell.LocationResource) (cell.LocationResource, error) {
			moved := l.Moved(setLat, setLon, time.Now())
			return moved, moved.Validate()
		})
		if err != nil {
			return err
		}
		return printRecord(cmd.OutOrStdout(), next, setJSON)
	},
}

var setPriceCmd = &cobra.Command{
	Use:   "price",
	Short: "Revise the price content",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := resolveDir()
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		s, err := cell.OpenPrice(ctx, dir, openOptions()...)
		if err != nil {
			return fmt.Errorf("failed to open price: %w", err)
		}

		next, err := s.Update(ctx, func(p cell.PriceResource) (cell.PriceResource, error) {
			revised := p.Revised(setContent, time.Now())
			return revised, revised.Validate()
		})
		if err != nil {
			return err
		}
		return printRecord(cmd.OutOrStdout(), next, setJSON)
	},
}

func init() {
	rootCmd.AddCommand(setCmd)
	setCmd.AddCommand(setLocationCmd, setPriceCmd)
	setCmd.PersistentFlags().BoolVar(&setJSON, "json", false, "Output in JSON format")

	setLocationCmd.Flags().Float64Var(&setLat, "lat", 0, "Latitude in degrees")
	setLocationCmd.Flags().Float64Var(&setLon, "lon", 0, "Longitude in degrees")
	_ = setLocationCmd.MarkFlagRequired("lat")
	_ = setLocationCmd.MarkFlagRequired("lon")

	setPriceCmd.Flags().StringVar(&setContent, "content", "", "New price content")
	_ = setPriceCmd.MarkFlagRequired("content")
}
