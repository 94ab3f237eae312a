package main

import (
	"context"
	"log"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/awslabs/aws-lambda-go-api-proxy/gorillamux"
	"go.uber.org/zap"

	"social_server/app"
	"social_server/config"
)

var (
	muxLambda *gorillamux.GorillaMuxAdapterV2
	container *app.Container
	coldStart = true
)

// init runs during cold start
func init() {
	started := time.Now()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	// Invocations are short-lived; live posts need a long-running server.
	cfg.EnableSocket = false

	container, err = app.New(context.Background(), cfg)
	if err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}
	muxLambda = gorillamux.NewV2(container.Router)

	container.Logger.Info("lambda cold start completed", zap.Duration("duration", time.Since(started)))
}

// Handler is the Lambda function handler
func Handler(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	if coldStart {
		container.Logger.Info("first invocation after cold start", zap.String("routeKey", req.RouteKey))
		coldStart = false
	}
	return muxLambda.ProxyWithContext(ctx, req)
}

func main() {
	lambda.Start(Handler)
}
