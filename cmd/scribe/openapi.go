package main

import (
	"github.com/spf13/cobra"

	"github.com/JaimeStill/scribe/internal/api"
	"github.com/JaimeStill/scribe/internal/config"
	"github.com/JaimeStill/scribe/internal/infrastructure"
	"github.com/JaimeStill/scribe/pkg/openapi"
)

var flagOut string

var openapiCmd = &cobra.Command{
	Use:   "openapi",
	Short: "Write the API's OpenAPI document",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		infra, err := infrastructure.New(cfg)
		if err != nil {
			return err
		}

		spec := api.NewSpec(cfg, infra)
		if flagOut != "" {
			return openapi.WriteJSON(spec, flagOut)
		}

		data, err := openapi.MarshalJSON(spec)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(append(data, '\n'))
		return err
	},
}

func init() {
	openapiCmd.Flags().StringVarP(&flagOut, "out", "o", "", "write to this file instead of stdout")
}
