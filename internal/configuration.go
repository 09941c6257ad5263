package internal

import "github.com/caarlos0/env/v11"

type Configuration struct {
	// WebhookSecret is checked at request time, not load time: a missing
	// secret fails closed with a 500 instead of preventing startup.
	WebhookSecret string `env:"GITHUB_WEBHOOK_SECRET"`

	GithubAppId         string `env:"GITHUB_APP_ID,notEmpty"`
	GithubAppPrivateKey string `env:"GITHUB_APP_PRIVATE_KEY,notEmpty"` // base64-encoded PEM

	AIProvider     string `env:"AI_PROVIDER" envDefault:"bedrock"`
	BedrockModelId string `env:"BEDROCK_MODEL_ID"`
	AWSRegion      string `env:"AWS_REGION" envDefault:"eu-west-1"`
	OpenAIToken    string `env:"OPENAI_API_KEY"`
	OpenAIModel    string `env:"OPENAI_MODEL"`

	MaxReviewRetries int    `env:"AI_MAX_RETRIES" envDefault:"2"`
	DiffSource       string `env:"DIFF_SOURCE" envDefault:"api"`
	ListenAddr       string `env:"LISTEN_ADDR" envDefault:"0.0.0.0:8080"`
}

func LoadConfiguration() (Configuration, error) {
	config := Configuration{}
	err := env.Parse(&config)
	if err != nil {
		return config, err
	}
	return config, nil
}
