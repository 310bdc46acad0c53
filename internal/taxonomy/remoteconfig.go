package taxonomy

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/option"
)

// DefaultParameter is the Remote Config parameter holding the taxonomy JSON.
const DefaultParameter = "categories_json"

// RemoteConfigEvaluator reads the taxonomy parameter from a Firebase Remote
// Config server template.
type RemoteConfigEvaluator struct {
	app       *firebase.App
	parameter string
}

// NewRemoteConfigEvaluator initializes the Firebase app for the project.
func NewRemoteConfigEvaluator(ctx context.Context, projectID, parameter string, opts ...option.ClientOption) (*RemoteConfigEvaluator, error) {
	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("firebase app: %w", err)
	}
	if parameter == "" {
		parameter = DefaultParameter
	}
	return &RemoteConfigEvaluator{app: app, parameter: parameter}, nil
}

// CategoriesJSON fetches and evaluates the current server template and
// returns the taxonomy parameter's value.
func (e *RemoteConfigEvaluator) CategoriesJSON(ctx context.Context) (string, error) {
	client, err := e.app.RemoteConfig(ctx)
	if err != nil {
		return "", fmt.Errorf("remote config client: %w", err)
	}
	template, err := client.GetServerTemplate(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("remote config template: %w", err)
	}
	cfg, err := template.Evaluate(nil)
	if err != nil {
		return "", fmt.Errorf("remote config evaluate: %w", err)
	}
	return cfg.GetString(e.parameter), nil
}
