package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	codegraph "github.com/rlaaudgjs5638/contractGraph/internal/codegraph/app"
	commgraph "github.com/rlaaudgjs5638/contractGraph/internal/commgraph/app"
	fetcherapp "github.com/rlaaudgjs5638/contractGraph/internal/fetcher/app"
	fdomain "github.com/rlaaudgjs5638/contractGraph/internal/fetcher/domain"
	"github.com/rlaaudgjs5638/contractGraph/internal/fetcher/infra"
	"github.com/rlaaudgjs5638/contractGraph/internal/loader"
	"github.com/rlaaudgjs5638/contractGraph/internal/persistence"
	"github.com/rlaaudgjs5638/contractGraph/internal/report"
	"github.com/rlaaudgjs5638/contractGraph/shared/computation"
	shareddomain "github.com/rlaaudgjs5638/contractGraph/shared/domain"
	"github.com/rlaaudgjs5638/contractGraph/shared/eventbus"
	sharedkafka "github.com/rlaaudgjs5638/contractGraph/shared/kafka"
)

// multiFlag: -input 반복 지정 지원
type multiFlag []string

func (m *multiFlag) String() string { return strings.Join(*m, ",") }
func (m *multiFlag) Set(v string) error {
	*m = append(*m, v)
	return nil
}

func main() {
	// .env는 있으면 읽고 없으면 조용히 넘어감
	_ = godotenv.Load()

	var inputs multiFlag
	flag.Var(&inputs, "input", "컨트랙트 리스트 JSON 파일 (반복 지정 가능)")
	output := flag.String("output", computation.DefaultOutputRootPath(), "산출물 출력 디렉터리")
	blockchain := flag.String("blockchain", "", "블록체인 필터 (예: ethereum)")
	protocol := flag.String("protocol", "", "프로토콜 필터 (예: Uniswap)")
	batchSize := flag.Int("batch-size", 10, "배치당 컨트랙트 수")
	requestDelay := flag.Duration("request-delay", 250*time.Millisecond, "요청 간 지연")
	batchDelay := flag.Duration("batch-delay", 2*time.Second, "배치 간 지연")
	maxRetries := flag.Int("max-retries", 3, "일시 오류 재시도 횟수")
	resumeFrom := flag.Int("resume-from", 0, "이 인덱스부터 재개 (이전 결과 복원)")
	limit := flag.Int("limit", 0, "앞에서 n개만 처리 (0 = 전체)")
	skipFetch := flag.Bool("skip-fetch", false, "수집 생략, 저장된 contracts.json에서 그래프만 재생성")
	noGraphs := flag.Bool("no-graphs", false, "그래프 생성 생략 (수집만)")
	saveSources := flag.Bool("save-sources", false, "소스 파일을 디렉터리 트리로 덤프")
	quiet := flag.Bool("quiet", false, "진행 로그 끄기")
	flag.Parse()

	if len(inputs) == 0 && !*skipFetch {
		fmt.Fprintln(os.Stderr, "사용법: fetchgraph -input contracts.json [옵션]")
		flag.PrintDefaults()
		os.Exit(2)
	}

	store, err := persistence.NewStore(*output)
	if err != nil {
		log.Fatalf("❌ 출력 디렉터리 준비 실패: %v", err)
	}

	// Ctrl+C → 수집 중단, 지금까지의 결과로 마무리
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var contracts []*shareddomain.FetchedContract
	var status *fdomain.ProcessingStatus

	if *skipFetch {
		contracts, err = store.LoadContracts()
		if err != nil {
			log.Fatalf("❌ 저장된 수집 결과 로드 실패: %v", err)
		}
		status, _ = store.LoadStatus()
		log.Printf("📦 저장된 컨트랙트 %d건에서 그래프 재생성", len(contracts))
	} else {
		contracts, status = runFetch(ctx, inputs, store, fetchOptions{
			blockchain:   *blockchain,
			protocol:     *protocol,
			batchSize:    *batchSize,
			requestDelay: *requestDelay,
			batchDelay:   *batchDelay,
			maxRetries:   *maxRetries,
			resumeFrom:   *resumeFrom,
			limit:        *limit,
			output:       *output,
			quiet:        *quiet,
		})
	}

	if *saveSources {
		if err := store.SaveSources(contracts); err != nil {
			log.Printf("⚠️  소스 덤프 실패 (계속): %v", err)
		}
	}

	if *noGraphs {
		log.Printf("✅ 수집 완료: %d건 (그래프 생성 생략)", len(contracts))
		return
	}

	// 그래프 생성: 두 빌더가 동일한 읽기 전용 결과를 공유
	cb := codegraph.NewBuilder()
	cb.AddContracts(contracts)
	code := cb.Build()
	if err := store.SaveCodeGraph(code); err != nil {
		log.Fatalf("❌ 코드 그래프 저장 실패: %v", err)
	}
	log.Printf("📊 코드 그래프: 노드 %d, 간선 %d", code.Metadata.NodeCount, code.Metadata.EdgeCount)

	mb := commgraph.NewBuilder()
	mb.AddContracts(contracts)
	comm := mb.Build()
	if err := store.SaveCommGraph(comm); err != nil {
		log.Fatalf("❌ 통신 그래프 저장 실패: %v", err)
	}
	log.Printf("📊 통신 그래프: 노드 %d, 간선 %d", comm.Metadata.NodeCount, comm.Metadata.EdgeCount)

	summary := report.BuildSummary(contracts, status, cb.GetStats(), comm)
	if err := store.SaveSummary(summary); err != nil {
		log.Printf("⚠️  요약 리포트 저장 실패: %v", err)
	}
	log.Printf("✅ 완료: 산출물 → %s", *output)
}

type fetchOptions struct {
	blockchain   string
	protocol     string
	batchSize    int
	requestDelay time.Duration
	batchDelay   time.Duration
	maxRetries   int
	resumeFrom   int
	limit        int
	output       string
	quiet        bool
}

func runFetch(ctx context.Context, inputs []string, store *persistence.Store, opts fetchOptions) ([]*shareddomain.FetchedContract, *fdomain.ProcessingStatus) {
	entries := loader.LoadAll(inputs)
	entries = loader.RemoveDuplicates(entries)
	if opts.blockchain != "" {
		entries = loader.FilterByBlockchain(entries, opts.blockchain)
	}
	if opts.protocol != "" {
		entries = loader.FilterByProtocol(entries, opts.protocol)
	}
	if opts.limit > 0 {
		entries = loader.Limit(entries, opts.limit)
	}

	stats := loader.ComputeStats(entries)
	log.Printf("📋 입력: %d건 (블록체인 %d종, 프로토콜 %d종)",
		stats.Total, len(stats.ByBlockchain), len(stats.ByProtocol))

	apiKey := os.Getenv("EXPLORER_API_KEY")
	if apiKey == "" {
		log.Printf("⚠️  EXPLORER_API_KEY 미설정 — 익명 요청은 강하게 제한됨")
	}

	cfg := fdomain.DefaultFetchConfig(opts.output)
	cfg.BatchSize = opts.batchSize
	cfg.RequestDelay = opts.requestDelay
	cfg.BatchDelay = opts.batchDelay
	cfg.MaxRetries = opts.maxRetries
	cfg.ResumeIndex = opts.resumeFrom

	fetcher := fetcherapp.NewBatchFetcher(cfg, infra.NewExplorerClient(apiKey))
	fetcher.Checkpoint = store

	cache, err := infra.NewContractCache(filepath.Join(computation.DefaultCacheRootPath(), "contracts"))
	if err != nil {
		log.Printf("⚠️  수집 캐시 열기 실패 (캐시 없이 진행): %v", err)
	} else {
		fetcher.Cache = cache
		defer cache.Close()
	}

	if !opts.quiet {
		fetcher.Progress = func(st fdomain.ProcessingStatus, entry shareddomain.ContractEntry) {
			log.Printf("🔄 [%d/%d] %s (%s) 수집 중...",
				st.Processed+1, st.Total, entry.ContractName, entry.Address.Short())
		}
	}

	// 진행 이벤트: 로컬 버스로 받고, KAFKA_BROKERS가 있으면 토픽으로도 발행
	bus, err := eventbus.NewWithPath[fdomain.FetchEvent](filepath.Join(opts.output, "fetch_events.jsonl"), 4096)
	if err != nil {
		log.Printf("⚠️  이벤트 버스 생성 실패 (이벤트 발행 생략): %v", err)
	} else {
		fetcher.Events = bus
		go consumeEvents(bus, opts.quiet)
		defer bus.Close()
	}

	contracts, status, err := fetcher.FetchAll(ctx, entries)
	if err != nil {
		// 취소 포함 — 지금까지의 결과는 유효하니 그대로 이어감
		log.Printf("⚠️  수집 중단: %v (확보분 %d건으로 계속)", err, len(contracts))
	}
	if status != nil && len(status.FailedAddresses) > 0 {
		log.Printf("⚠️  실패 %d건: %v", len(status.FailedAddresses), status.FailedAddresses)
	}
	return contracts, status
}

// consumeEvents: 버스 이벤트를 로그로, 그리고 브로커가 설정돼 있으면 카프카로
func consumeEvents(bus *eventbus.EventBus[fdomain.FetchEvent], quiet bool) {
	var producer sharedkafka.Producer
	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		topic := os.Getenv("KAFKA_FETCH_TOPIC")
		if topic == "" {
			topic = "contract-fetch-events"
		}
		brokerList := strings.Split(brokers, ",")
		if err := sharedkafka.CreateTopicIfNotExists(brokerList, topic, 1, 1); err != nil {
			log.Printf("⚠️  토픽 준비 실패 (발행은 계속 시도): %v", err)
		}
		producer = sharedkafka.NewProducer(brokerList, topic)
		defer producer.Close()
		log.Printf("📡 카프카 발행 활성화: %s → %s", brokers, topic)
	}

	for evt := range bus.Dequeue() {
		if !quiet {
			log.Printf("✅ [%d/%d] %s 수집 완료 (파일 %d개, ABI %v)",
				evt.Index+1, evt.Total, evt.ContractName, evt.FileCount, evt.HasABI)
		}
		if producer != nil {
			if err := producer.PublishMessage(context.Background(), []byte(evt.Address), evt); err != nil {
				log.Printf("⚠️  카프카 발행 실패: %v", err)
			}
		}
	}
}
