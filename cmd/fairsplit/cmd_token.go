package main

import (
	"errors"

	"fairsplit/internal/adapter/http/dto"
	"fairsplit/internal/service"

	"github.com/spf13/cobra"
)

func (a *app) tokenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "token SUBJECT",
		Short: "Issue an operator token for the run endpoints",
		Long: `Token signs a bearer token for SUBJECT with jwt.secret. The API accepts
it on POST /api/v1/runs, GET /api/v1/runs/:id and POST /api/v1/replays.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.cfg.JWT.Secret == "" {
				return errors.New("jwt.secret is not configured (set FSP_JWT_SECRET)")
			}

			tokenSvc := service.NewJWTTokenService(a.cfg.JWT.Secret, a.cfg.JWT.Expiry, a.cfg.JWT.Issuer)
			token, expiry, err := tokenSvc.Generate(args[0])
			if err != nil {
				return err
			}
			return a.writeJSON(dto.TokenResponse{Token: token, Expiry: expiry.Unix()})
		},
	}
}
