package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	codegraphapi "github.com/rlaaudgjs5638/contractGraph/internal/codegraph/api"
	commgraphapi "github.com/rlaaudgjs5638/contractGraph/internal/commgraph/api"
	"github.com/rlaaudgjs5638/contractGraph/internal/persistence"
	"github.com/rlaaudgjs5638/contractGraph/server"
	"github.com/rlaaudgjs5638/contractGraph/shared/computation"
)

func main() {
	_ = godotenv.Load()

	output := flag.String("output", computation.DefaultOutputRootPath(), "fetchgraph 산출물 디렉터리")
	flag.Parse()

	addr := ":8080"
	if envAddr := os.Getenv("SERVER_ADDR"); envAddr != "" {
		addr = envAddr
	}

	store, err := persistence.NewStore(*output)
	if err != nil {
		log.Fatalf("❌ 산출물 디렉터리 열기 실패: %v", err)
	}

	// Chi 라우터 기반 서버 생성
	srv := server.NewServer(addr)
	srv.SetupBasicRoutes()

	if err := srv.RegisterModule(codegraphapi.NewCodeGraphAPIHandler(store)); err != nil {
		log.Fatalf("Failed to register codegraph module: %v", err)
	}
	if err := srv.RegisterModule(commgraphapi.NewCommGraphAPIHandler(store)); err != nil {
		log.Fatalf("Failed to register commgraph module: %v", err)
	}

	go func() {
		log.Printf("🚀 ContractGraph Server starting on %s", addr)
		log.Printf("📊 Code Graph: http://localhost%s/api/codegraph", addr)
		log.Printf("📡 Comm Graph: http://localhost%s/api/commgraph", addr)
		log.Printf("🔌 API Health: http://localhost%s/api/health", addr)

		if err := srv.Start(); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// 우아한 종료를 위한 신호 처리
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("✅ Server exited gracefully")
}
