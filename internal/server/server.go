package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"

	"github.com/aivahq/dupwatch/internal/config"
	"github.com/aivahq/dupwatch/internal/jobs"
	"github.com/aivahq/dupwatch/internal/notify"
	"github.com/aivahq/dupwatch/internal/queue"
	"github.com/aivahq/dupwatch/internal/service"
	"github.com/aivahq/dupwatch/internal/store"
)

// Server wires the store, detector, queue and jobs behind the HTTP API.
type Server struct {
	httpPort string
}

// NewServer creates a new server.
func NewServer(httpPort string) *Server {
	return &Server{
		httpPort: httpPort,
	}
}

// Start starts the server.
func (s *Server) Start() {
	if err := Start(s.httpPort); err != nil {
		logrus.Fatalf("error starting server: %v", err)
	}
}

// Start runs the HTTP server until interrupted.
func Start(httpPort string) error {
	httpPort = ":" + httpPort

	cnf := config.LoadConfig()

	db, err := config.GetDb(cnf)
	if err != nil {
		return err
	}

	st := store.NewGormStore(db)
	if err := st.Migrate(); err != nil {
		return err
	}

	alertQueue, closeQueue, err := buildQueue(cnf)
	if err != nil {
		return err
	}

	detector := service.NewDetector(st)
	admin := service.NewAdminService(st)

	rl, err := net.Listen("tcp", httpPort)
	if err != nil {
		return err
	}

	router := newRouter(detector, admin, alertQueue, time.Now())

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "PUT"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	restServer := &http.Server{
		Addr:    httpPort,
		Handler: c.Handler(router),
	}

	pump := jobs.NewAlertPump(alertQueue, buildDispatcher(cnf), cnf.AdminIDs)
	sweeper := jobs.NewAlertSweeper(cnf.SweepSchedule, cnf.AlertRetention, st)

	executor := jobs.NewTaskExecutor(nil, []jobs.CronJob{sweeper})
	executor.Run()

	// make sure to wait for the servers to stop before exiting
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		pump.Run()
		logrus.Infof("alert pump stopped")
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		logrus.Info("starting http server on: ", httpPort)
		if err := restServer.Serve(rl); err != nil {
			if !errors.Is(err, http.ErrServerClosed) {
				logrus.Errorf("error starting http server: %v", err)
			}
		}
		logrus.Infof("http server stopped")
	}()

	logrus.Infof("Press Ctrl+C to stop the server")

	// listen for interrupt signal to gracefully shut down the server
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, unix.SIGTERM, unix.SIGINT, unix.SIGTSTP)
	<-sigs
	// clean Ctrl+C output
	fmt.Println()

	executor.Stop()
	pump.Stop()

	if err := restServer.Shutdown(context.Background()); err != nil {
		logrus.Errorf("error stopping http server: %v", err)
	}

	if closeQueue != nil {
		if err := closeQueue(); err != nil {
			logrus.Errorf("error closing alert queue: %v", err)
		}
	}

	wg.Wait()

	return nil
}

func buildQueue(cnf config.Config) (queue.AlertQueue, func() error, error) {
	if cnf.KafkaBrokers != "" {
		q, err := queue.NewKafkaQueue(cnf.KafkaBrokers, cnf.KafkaTopic, cnf.KafkaGroup)
		if err != nil {
			return nil, nil, err
		}
		logrus.Infof("alert queue: kafka topic %s", cnf.KafkaTopic)
		return q, q.Close, nil
	}

	q := queue.NewRedisQueue(cnf.RedisAddr, cnf.RedisPassword, cnf.RedisDB)
	logrus.Infof("alert queue: redis at %s", cnf.RedisAddr)
	return q, q.Close, nil
}

func buildDispatcher(cnf config.Config) notify.Dispatcher {
	if cnf.WebhookURL != "" {
		return notify.NewWebhookDispatcher(cnf.WebhookURL)
	}
	return notify.NewLogDispatcher()
}
