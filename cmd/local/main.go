// Command local runs the storefront API as a plain HTTP server for
// development, adapting each request into the same API Gateway event shape
// the Lambda entrypoint handles. It talks to DynamoDB Local by default, or
// keeps everything in memory with -memory.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/shopfront/shopfront/internal/handler"
	"github.com/shopfront/shopfront/pkg/config"
	"github.com/shopfront/shopfront/pkg/store"
	"github.com/shopfront/shopfront/pkg/store/dynamostore"
	"github.com/shopfront/shopfront/pkg/store/memstore"
)

func main() {
	configPath := flag.String("config", "", "optional YAML config file")
	useMemory := flag.Bool("memory", false, "use the in-memory store instead of DynamoDB")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	st, err := buildStore(cfg, *useMemory)
	if err != nil {
		logger.Fatal("failed to initialize store", zap.Error(err))
	}

	api := handler.New(st, logger)
	router := mux.NewRouter()
	router.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}).Methods("GET")

	for _, resource := range []string{"users", "shops", "items", "orders"} {
		router.HandleFunc("/"+resource, adaptHandler(api.Handle)).Methods("POST", "GET")
		router.HandleFunc("/"+resource+"/{id}", adaptHandler(api.Handle)).Methods("GET", "PUT", "DELETE")
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("starting server", zap.String("port", cfg.Port), zap.Bool("memory", *useMemory))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("forced shutdown", zap.Error(err))
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	return config.Load()
}

func buildStore(cfg *config.Config, useMemory bool) (store.Store, error) {
	if useMemory {
		return memstore.New(), nil
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.DynamoDBEndpoint != "" {
		// DynamoDB Local accepts any static credentials.
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider("local", "local", ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		return nil, err
	}

	client := dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		if cfg.DynamoDBEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.DynamoDBEndpoint)
		}
	})
	return dynamostore.New(client, cfg.Tables()), nil
}

// adaptHandler converts the Lambda handler into an http.HandlerFunc.
func adaptHandler(lambdaHandler func(context.Context, events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response, err := lambdaHandler(r.Context(), httpToLambdaEvent(r))
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		for key, value := range response.Headers {
			w.Header().Set(key, value)
		}
		w.WriteHeader(response.StatusCode)
		w.Write([]byte(response.Body))
	}
}

func httpToLambdaEvent(r *http.Request) events.APIGatewayProxyRequest {
	queryParams := make(map[string]string)
	for key, values := range r.URL.Query() {
		if len(values) > 0 {
			queryParams[key] = values[0]
		}
	}

	var body string
	if r.Body != nil {
		defer r.Body.Close()
		raw, _ := io.ReadAll(r.Body)
		body = string(raw)
	}

	return events.APIGatewayProxyRequest{
		HTTPMethod:            r.Method,
		Path:                  r.URL.Path,
		PathParameters:        mux.Vars(r),
		QueryStringParameters: queryParams,
		Body:                  body,
	}
}
