package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/campussrc/src-portal/internal/messaging"
	"github.com/campussrc/src-portal/pkg/logger"
	"github.com/spf13/cobra"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Start worker pools for background services",
	Long:  `Start and manage worker pools, currently the broadcast link dispatcher.`,
}

var broadcastWorkerCmd = &cobra.Command{
	Use:   "broadcast",
	Short: "Start broadcast dispatcher worker pool",
	Long:  `Start the broadcast dispatcher worker pool for processing prepared message links`,
	Run: func(cmd *cobra.Command, args []string) {
		startBroadcastWorker()
	},
}

func startBroadcastWorker() {
	config, err := loadConfig(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(os.Getenv("APP_ENV"), config.Observability.Logging.Level)
	lg := logger.LoggerWrapper()

	dispatcher := messaging.NewBroadcastDispatcher(config.Messaging, lg, nil)

	lg.Info("broadcast worker running, waiting for shutdown signal")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan

	lg.Info("received signal, shutting down", "signal", sig)
	dispatcher.Shutdown()
}

func init() {
	workerCmd.AddCommand(broadcastWorkerCmd)
}
