package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"docchat/internal/client"
	"docchat/internal/config"
	conv "docchat/internal/model/conversation"
	"docchat/internal/service/conversation"
	"docchat/internal/session"
)

const usage = `docchat - chat with your uploaded documents

Usage:
  docchat [flags] <command> [args]

Commands:
  chat                 interactive chat session
  upload <file>...     upload documents to the backend
  list                 list uploaded documents
  delete <filename>    delete an uploaded document
  train [-watch]       start training over the uploaded documents
  status               show the current training status
  key <api-key>        store the model provider API key on the backend

Flags:
  -model string        override the chat model
  -file-type string    override the document namespace (pdf or csv)
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("warning: failed to load .env file: %v", err)
	}

	modelFlag := flag.String("model", "", "override the chat model")
	fileTypeFlag := flag.String("file-type", "", "override the document namespace (pdf or csv)")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}
	if *modelFlag != "" {
		cfg.Client.Model = *modelFlag
	}
	if *fileTypeFlag != "" {
		ft := strings.ToLower(*fileTypeFlag)
		if ft != "pdf" && ft != "csv" {
			log.Fatalf("invalid -file-type %q: must be pdf or csv", *fileTypeFlag)
		}
		cfg.Client.FileType = ft
	}

	c, err := client.New(cfg.Client.BaseURL, client.WithRequestTimeout(cfg.Client.RequestTimeout))
	if err != nil {
		log.Fatalf("failed to create client: %v", err)
	}

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	command, rest := args[0], args[1:]
	switch command {
	case "chat":
		err = runChat(ctx, c, cfg)
	case "upload":
		err = runUpload(ctx, c, cfg.Client.FileType, rest)
	case "list":
		err = runList(ctx, c, cfg.Client.FileType)
	case "delete":
		err = runDelete(ctx, c, cfg.Client.FileType, rest)
	case "train":
		err = runTrain(ctx, c, rest)
	case "status":
		err = runStatus(ctx, c)
	case "key":
		err = runKey(ctx, c, rest)
	default:
		flag.Usage()
		os.Exit(2)
	}
	if err != nil {
		log.Fatalf("%s: %v", command, err)
	}
}

func runChat(ctx context.Context, c *client.Client, cfg *config.Config) error {
	sessions := session.NewManager(cfg.Session.Path, cfg.Session.Strict)

	// Track how much of the cumulative snapshot is already on screen so
	// only the new tail gets printed.
	var printed int
	o := conversation.NewOrchestrator(c, conversation.NewHistory(), sessions.ID,
		conversation.Options{
			Model:    cfg.Client.Model,
			FileType: cfg.Client.FileType,
			OnChunk: func(_ int, cumulative string) {
				if len(cumulative) > printed {
					fmt.Print(cumulative[printed:])
					printed = len(cumulative)
				}
			},
		})

	fmt.Printf("docchat (%s, %s) - type your message, Ctrl-D to quit\n",
		cfg.Client.Model, cfg.Client.FileType)

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for {
		fmt.Print("you> ")
		if !scanner.Scan() {
			fmt.Println()
			return scanner.Err()
		}

		printed = 0
		res, err := o.Submit(ctx, scanner.Text())
		switch {
		case errors.Is(err, conversation.ErrEmptyMessage):
			continue
		case errors.Is(err, context.Canceled):
			fmt.Println()
			return nil
		case err != nil:
			fmt.Println()
			log.Printf("turn failed: %v", err)
			continue
		}
		fmt.Println()

		if res.ChartData != nil {
			printChart(res.ChartData)
		}
	}
}

func printChart(data *conv.ChartData) {
	if data.PieChart != nil {
		fmt.Println("pie chart:")
		for i, label := range data.PieChart.Labels {
			if i < len(data.PieChart.Values) {
				fmt.Printf("  %-20s %v\n", label, data.PieChart.Values[i])
			}
		}
	}
	if data.BarChart != nil {
		fmt.Println("bar chart:")
		for _, ds := range data.BarChart.Datasets {
			fmt.Printf("  %s over %v: %v\n", ds.Label, data.BarChart.Labels, ds.Data)
		}
	}
}

func runUpload(ctx context.Context, c *client.Client, fileType string, paths []string) error {
	if len(paths) == 0 {
		return errors.New("no files given")
	}

	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			return err
		}

		result, err := c.Upload(ctx, fileType, filepath.Base(path), f)
		_ = f.Close()
		if err != nil {
			return fmt.Errorf("upload %s: %w", path, err)
		}
		fmt.Printf("uploaded %s\n", result.Filename)
	}
	return nil
}

func runList(ctx context.Context, c *client.Client, fileType string) error {
	files, err := c.ListFiles(ctx, fileType)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Printf("no %s files uploaded\n", fileType)
		return nil
	}
	for _, name := range files {
		fmt.Println(name)
	}
	return nil
}

func runDelete(ctx context.Context, c *client.Client, fileType string, args []string) error {
	if len(args) != 1 {
		return errors.New("expected exactly one filename")
	}
	if err := c.DeleteFile(ctx, fileType, args[0]); err != nil {
		return err
	}
	fmt.Printf("deleted %s\n", args[0])
	return nil
}

func runTrain(ctx context.Context, c *client.Client, args []string) error {
	fs := flag.NewFlagSet("train", flag.ExitOnError)
	watch := fs.Bool("watch", false, "follow training progress until it finishes")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var updates <-chan client.TrainingStatus
	if *watch {
		// Subscribe before starting so no early status is missed.
		var err error
		updates, err = c.WatchTraining(ctx)
		if err != nil {
			return err
		}
	}

	if err := c.StartTraining(ctx); err != nil {
		return err
	}
	fmt.Println("training started")

	if updates == nil {
		return nil
	}
	for status := range updates {
		fmt.Printf("%s: %s\n", status.Status, status.Message)
	}
	return ctx.Err()
}

func runKey(ctx context.Context, c *client.Client, args []string) error {
	if len(args) != 1 {
		return errors.New("expected exactly one API key")
	}
	if err := c.SetAPIKey(ctx, args[0]); err != nil {
		return err
	}
	fmt.Println("API key saved")
	return nil
}

func runStatus(ctx context.Context, c *client.Client) error {
	status, err := c.GetTrainingStatus(ctx)
	if err != nil {
		return err
	}
	if status.Message != "" {
		fmt.Printf("%s: %s\n", status.Status, status.Message)
	} else {
		fmt.Println(status.Status)
	}
	return nil
}
