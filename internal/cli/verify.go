package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/claimsight/claimsight/internal/agent"
	"github.com/claimsight/claimsight/internal/cache"
	"github.com/claimsight/claimsight/internal/ingest"
	"github.com/claimsight/claimsight/internal/knowledge"
	"github.com/claimsight/claimsight/internal/llm"
	"github.com/claimsight/claimsight/internal/model"
	"github.com/claimsight/claimsight/internal/pipeline"
	"github.com/claimsight/claimsight/internal/transcript"
)

var (
	videoURLs    []string
	outJSON      string
	outMD        string
	runTimeout   time.Duration
	parseBackend string
	parseURL     string
	kbBackend    string
	qdrantAddr   string
	collection   string
	topK         int
	embedderName string
	llmProvider  string
	llmModel     string
	workers      int
	noCache      bool
	noFooter     bool
)

// verifyCmd represents the verify command
var verifyCmd = &cobra.Command{
	Use:   "verify <document>",
	Short: "Verify video claims against a source document",
	Long: `Verify runs the full cross-checking pipeline:
- Parse the source document into retrievable chunks
- Rebuild the semantic knowledge store from those chunks
- Fetch transcripts for every video (failing videos are skipped)
- Extract factual claims from the merged transcript text
- Cross-verify each claim against retrieved document excerpts
- Score the output quality and retry once if it scores below threshold

Example:
  claimsight verify prospectus.pdf --video "https://www.youtube.com/watch?v=abc123"
  claimsight verify prospectus.pdf --video URL1 --video URL2 --md report.md
  claimsight verify prospectus.pdf --video URL --kb qdrant --embedder openai`,
	Args: cobra.ExactArgs(1),
	RunE: runVerify,
}

func init() {
	rootCmd.AddCommand(verifyCmd)

	verifyCmd.Flags().StringArrayVar(&videoURLs, "video", nil, "video URL to verify (repeatable)")
	_ = verifyCmd.MarkFlagRequired("video")

	// Output flags
	verifyCmd.Flags().StringVar(&outJSON, "json", "report.json", "output JSON path")
	verifyCmd.Flags().StringVar(&outMD, "md", "", "output Markdown path (optional)")
	verifyCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")

	// Run flags
	verifyCmd.Flags().DurationVar(&runTimeout, "timeout", 15*time.Minute, "overall run timeout (document parsing can be slow)")
	verifyCmd.Flags().IntVar(&workers, "workers", 4, "concurrent transcript fetch workers")
	verifyCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable transcript/embedding cache")

	// Parsing flags
	verifyCmd.Flags().StringVar(&parseBackend, "parse-backend", "local", "document parsing backend (local, remote)")
	verifyCmd.Flags().StringVar(&parseURL, "parse-url", "", "remote parse service base URL (default from config)")

	// Knowledge store flags
	verifyCmd.Flags().StringVar(&kbBackend, "kb", "memory", "knowledge store backend (memory, qdrant)")
	verifyCmd.Flags().StringVar(&qdrantAddr, "qdrant-addr", "localhost:6334", "qdrant gRPC address")
	verifyCmd.Flags().StringVar(&collection, "collection", "claimsight", "qdrant collection name")
	verifyCmd.Flags().IntVar(&topK, "top-k", 5, "chunks retrieved per verification query")
	verifyCmd.Flags().StringVar(&embedderName, "embedder", "lexical", "embedding backend (lexical, openai)")

	// LLM flags
	verifyCmd.Flags().StringVar(&llmProvider, "llm-provider", "openai", "LLM provider (openai, anthropic, ollama)")
	verifyCmd.Flags().StringVar(&llmModel, "llm-model", "", "LLM model name (provider default if empty)")
}

func runVerify(cmd *cobra.Command, args []string) error {
	docPath := args[0]

	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	cfg, err := buildConfig()
	if err != nil {
		return err
	}

	// Read the document once; bytes are not retained after indexing.
	docData, err := os.ReadFile(docPath)
	if err != nil {
		return fmt.Errorf("read document: %w", err)
	}

	p, renderer, err := buildPipeline(cfg)
	if err != nil {
		return err
	}

	progress := func(stage pipeline.Stage, percent int, message string) {
		if verbose {
			fmt.Fprintf(os.Stderr, "[%3d%%] %-10s %s\n", percent, stage, message)
		}
	}

	result, err := p.Run(ctx, pipeline.RunInput{
		DocumentName: filepath.Base(docPath),
		Document:     docData,
		VideoURLs:    videoURLs,
		Progress:     progress,
	})
	if err != nil {
		return fmt.Errorf("verification failed: %w", err)
	}

	if outJSON != "" {
		if err := renderer.WriteJSON(result, outJSON); err != nil {
			return err
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote JSON: %s\n", outJSON)
		}
	}
	if outMD != "" {
		if err := renderer.WriteMarkdown(result, outMD); err != nil {
			return err
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote Markdown: %s\n", outMD)
		}
	}

	renderer.RenderSummary(result)
	return nil
}

// buildConfig assembles the run configuration from defaults, flags and env
func buildConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()

	cfg.Parse.Backend = parseBackend
	if parseURL != "" {
		cfg.Parse.BaseURL = parseURL
	}
	cfg.Knowledge.Backend = kbBackend
	cfg.Knowledge.QdrantAddr = qdrantAddr
	cfg.Knowledge.Collection = collection
	cfg.Knowledge.TopK = topK
	cfg.Knowledge.Embedder = embedderName
	cfg.LLM.Provider = llmProvider
	if llmModel != "" {
		cfg.LLM.Model = llmModel
	}
	cfg.Cache.Enabled = !noCache
	cfg.Concurrency.TranscriptWorkers = workers
	cfg.Output.Verbose = verbose
	cfg.Output.IncludeFooter = !noFooter

	// API keys come from the environment, never from config files
	switch cfg.LLM.Provider {
	case "openai":
		cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
		if cfg.LLM.APIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
	case "anthropic", "claude":
		cfg.LLM.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		if cfg.LLM.APIKey == "" {
			return nil, fmt.Errorf("ANTHROPIC_API_KEY environment variable not set")
		}
	case "ollama":
		if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" {
			cfg.LLM.BaseURL = baseURL
		}
	}

	if cfg.Parse.Backend == "remote" {
		cfg.Parse.APIKey = os.Getenv("LLAMAPARSE_API_KEY")
		if cfg.Parse.APIKey == "" {
			return nil, fmt.Errorf("LLAMAPARSE_API_KEY environment variable not set")
		}
	}

	if cfg.Cache.Dir == "" {
		home, err := os.UserHomeDir()
		if err == nil {
			cfg.Cache.Dir = filepath.Join(home, ".claimsight", "cache")
		}
	}

	return cfg, nil
}

// buildPipeline wires the stage components from configuration
func buildPipeline(cfg *model.Config) (*pipeline.Pipeline, *pipeline.Renderer, error) {
	var c cache.Cache
	if cfg.Cache.Enabled && cfg.Cache.Dir != "" {
		c = cache.NewLayeredCache(cfg.Cache.MemoryTTL, cfg.Cache.Dir, cfg.Cache.DiskTTL)
	}

	// Transcript acquisition
	acquirer := transcript.NewAcquirer(cfg.HTTP.Timeout, c)

	// Document ingestion
	var parser ingest.Parser
	if cfg.Parse.Backend == "remote" {
		parser = ingest.NewRemoteParser(cfg.Parse.BaseURL, cfg.Parse.APIKey, cfg.Parse.Timeout, cfg.Parse.PollInterval)
	}
	ingestor := ingest.NewIngestor(parser, model.SourceProspectus)

	// Embedding
	var embedder knowledge.Embedder
	switch cfg.Knowledge.Embedder {
	case "openai":
		apiKey := cfg.LLM.APIKey
		if apiKey == "" {
			apiKey = os.Getenv("OPENAI_API_KEY")
		}
		e, err := knowledge.NewOpenAIEmbedder(apiKey, "", cfg.Knowledge.EmbedModel, c)
		if err != nil {
			return nil, nil, err
		}
		embedder = e
	default:
		embedder = knowledge.NewLexicalEmbedder(256)
	}

	// Knowledge store
	var store knowledge.Store
	switch cfg.Knowledge.Backend {
	case "qdrant":
		s, err := knowledge.NewQdrantStore(cfg.Knowledge.QdrantAddr, cfg.Knowledge.Collection, embedder)
		if err != nil {
			return nil, nil, err
		}
		store = s
	default:
		store = knowledge.NewMemoryStore(embedder)
	}

	// Generative provider shared by all three agents
	provider, err := llm.NewProvider(llm.ConfigFromModel(cfg.LLM, cfg.HTTP))
	if err != nil {
		return nil, nil, err
	}

	p := pipeline.New(
		ingestor,
		store,
		acquirer,
		agent.NewExtractor(provider),
		agent.NewVerifier(provider, store, cfg.Knowledge.TopK),
		agent.NewAssessor(provider),
		cfg.Quality.Threshold,
		cfg.Quality.MaxRetries,
		cfg.Concurrency.TranscriptWorkers,
	)

	return p, pipeline.NewRenderer(cfg.Output.IncludeFooter), nil
}
