package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"doc-assistant/api"
	"doc-assistant/config"
	"doc-assistant/database"
	"doc-assistant/embeddings"
	"doc-assistant/ingestion"
	"doc-assistant/knowledge"
	"doc-assistant/llm"
	"doc-assistant/tools"
	"doc-assistant/vectordb"
)

func main() {
	logger := log.New(os.Stdout, "", log.LstdFlags)

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cfg := config.Load()

	switch os.Args[1] {
	case "serve":
		serveCmd(cfg, logger, os.Args[2:])
	case "ingest":
		ingestCmd(cfg, logger, os.Args[2:])
	case "reset":
		resetCmd(cfg, logger, os.Args[2:])
	default:
		logger.Printf("unknown command: %s", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func serveCmd(cfg config.Config, logger *log.Logger, args []string) {
	flags := flag.NewFlagSet("serve", flag.ExitOnError)
	addr := flags.String("addr", cfg.ListenAddr, "address to listen on")
	if err := flags.Parse(args); err != nil {
		logger.Fatalf("parse serve flags: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	pgPool, err := database.NewPostgresPool(ctx, cfg.PostgresDSN)
	if err != nil {
		logger.Fatalf("postgres connection: %v", err)
	}
	defer pgPool.Close()

	if err := database.EnsureSchema(ctx, pgPool, cfg.Embeddings.Dimension); err != nil {
		logger.Fatalf("ensure schema: %v", err)
	}

	embedder, err := embeddings.NewEmbedder(cfg)
	if err != nil {
		logger.Fatalf("embedder setup: %v", err)
	}

	llmClient, err := llm.NewClient(cfg)
	if err != nil {
		logger.Fatalf("llm setup: %v", err)
	}

	store := vectordb.NewStore(pgPool, embedder, cfg.Embeddings.Model, cfg.Embeddings.Dimension, logger)

	qaTool, err := tools.NewQATool(store, llmClient, cfg.PromptsDir, cfg.TopK, logger)
	if err != nil {
		logger.Fatalf("qa tool setup: %v", err)
	}

	issueTool, err := tools.NewIssueSummaryTool(llmClient, cfg.PromptsDir, logger)
	if err != nil {
		logger.Fatalf("issue summary tool setup: %v", err)
	}

	router, err := tools.NewRouter(llmClient, qaTool, issueTool, cfg.PromptsDir, logger)
	if err != nil {
		logger.Fatalf("router setup: %v", err)
	}

	var graph api.Graph
	if cfg.Neo4jURI != "" {
		driver, err := database.NewNeo4jDriver(ctx, cfg.Neo4jURI, cfg.Neo4jUser, cfg.Neo4jPass)
		if err != nil {
			logger.Fatalf("neo4j connection: %v", err)
		}
		defer driver.Close(ctx)
		graph = knowledge.NewIssueGraph(driver, logger)
	} else {
		logger.Println("NEO4J_URI not set, issue graph disabled")
	}

	svc := ingestion.NewService(store, cfg.DataDir, cfg.MaxChunkChars, cfg.DocumentSources, logger)

	server := &http.Server{
		Addr:              *addr,
		Handler:           api.New(qaTool, issueTool, router, svc, store, graph, logger),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      90 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Printf("listening on %s using %s/%s", server.Addr, strings.ToUpper(cfg.LLM.Provider), cfg.LLM.Model)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		logger.Fatalf("server failed: %v", err)
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Printf("shutdown: %v", err)
	}
	logger.Println("server stopped")
}

func ingestCmd(cfg config.Config, logger *log.Logger, args []string) {
	flags := flag.NewFlagSet("ingest", flag.ExitOnError)
	docsFlag := flags.String("docs", "", "comma-separated document paths to ingest")
	useDefault := flags.Bool("default", false, "ingest the configured default documents")
	resetFirst := flags.Bool("reset", false, "reset the vector index before ingesting")
	if err := flags.Parse(args); err != nil {
		logger.Fatalf("parse ingest flags: %v", err)
	}

	docs := splitDocs(*docsFlag)
	docs = append(docs, flags.Args()...)

	if len(docs) == 0 && !*useDefault {
		logger.Fatalf("no documents specified, pass paths or use -default")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	pgPool, err := database.NewPostgresPool(ctx, cfg.PostgresDSN)
	if err != nil {
		logger.Fatalf("postgres connection: %v", err)
	}
	defer pgPool.Close()

	if err := database.EnsureSchema(ctx, pgPool, cfg.Embeddings.Dimension); err != nil {
		logger.Fatalf("ensure schema: %v", err)
	}

	embedder, err := embeddings.NewEmbedder(cfg)
	if err != nil {
		logger.Fatalf("embedder setup: %v", err)
	}

	store := vectordb.NewStore(pgPool, embedder, cfg.Embeddings.Model, cfg.Embeddings.Dimension, logger)

	if *resetFirst {
		if err := store.Reset(ctx); err != nil {
			logger.Fatalf("reset index: %v", err)
		}
	}

	svc := ingestion.NewService(store, cfg.DataDir, cfg.MaxChunkChars, cfg.DocumentSources, logger)
	logger.Printf("ingesting documents using %s/%s embeddings", strings.ToUpper(cfg.Embeddings.Provider), cfg.Embeddings.Model)

	var report ingestion.Report
	if *useDefault && len(docs) == 0 {
		report, err = svc.IngestDefaults(ctx)
	} else {
		if *useDefault {
			for _, name := range cfg.DocumentSources {
				docs = append(docs, filepath.Join(cfg.DataDir, name))
			}
		}
		report, err = svc.ProcessDocuments(ctx, docs)
	}
	if err != nil {
		logger.Fatalf("ingestion failed: %v", err)
	}

	logger.Printf("done: %d documents, %d chunks, %d skipped", report.Documents, report.Chunks, len(report.Skipped))
}

func resetCmd(cfg config.Config, logger *log.Logger, args []string) {
	flags := flag.NewFlagSet("reset", flag.ExitOnError)
	confirmed := flags.Bool("confirm", false, "skip confirmation prompt")
	if err := flags.Parse(args); err != nil {
		logger.Fatalf("parse reset flags: %v", err)
	}

	if !*confirmed {
		fmt.Print("This will permanently delete all indexed document chunks. Continue? [y/N]: ")
		scanner := bufio.NewScanner(os.Stdin)
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				logger.Fatalf("read confirmation: %v", err)
			}
			logger.Println("reset aborted")
			return
		}
		answer := strings.ToLower(strings.TrimSpace(scanner.Text()))
		if answer != "y" && answer != "yes" {
			logger.Println("reset aborted")
			return
		}
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	pgPool, err := database.NewPostgresPool(ctx, cfg.PostgresDSN)
	if err != nil {
		logger.Fatalf("postgres connection: %v", err)
	}
	defer pgPool.Close()

	if err := database.DropChunkTable(ctx, pgPool); err != nil {
		logger.Fatalf("drop chunk table: %v", err)
	}
	if err := database.EnsureSchema(ctx, pgPool, cfg.Embeddings.Dimension); err != nil {
		logger.Fatalf("recreate schema: %v", err)
	}

	logger.Println("vector index reset")
}

func splitDocs(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	docs := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			docs = append(docs, trimmed)
		}
	}
	return docs
}

func printUsage() {
	fmt.Println("Usage: doc-assistant <command> [options]")
	fmt.Println("Commands:")
	fmt.Println("  serve    Start the HTTP API (use -addr to override the listen address)")
	fmt.Println("  ingest   Ingest documents into the vector index (-docs a.txt,b.pdf or -default)")
	fmt.Println("  reset    Drop and recreate the vector index")
}
