package core

import (
	"context"
	"errors"
	"testing"
	"time"
)

func newTestService(t *testing.T, opts ServiceOptions) *Service {
	t.Helper()
	svc, err := NewService(opts)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestService_Sessions(t *testing.T) {
	svc := newTestService(t, ServiceOptions{})

	sess := svc.NewSession()
	if sess.ID == "" {
		t.Fatal("session without id")
	}
	got, err := svc.Session(sess.ID)
	if err != nil || got != sess {
		t.Fatalf("Session(%s) = %v, %v", sess.ID, got, err)
	}
	if svc.SessionCount() != 1 {
		t.Errorf("SessionCount = %d", svc.SessionCount())
	}

	if !svc.CloseSession(sess.ID) {
		t.Error("CloseSession reported missing session")
	}
	if svc.CloseSession(sess.ID) {
		t.Error("second CloseSession reported success")
	}
	if _, err := svc.Session(sess.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("err = %v, want ErrSessionNotFound", err)
	}
}

func TestService_EvictsLeastRecentlyUsed(t *testing.T) {
	svc := newTestService(t, ServiceOptions{MaxSessions: 2})

	a := svc.NewSession()
	b := svc.NewSession()
	if _, err := svc.Session(a.ID); err != nil {
		t.Fatal(err)
	}
	svc.NewSession()

	if _, err := svc.Session(b.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("least recently used session still present: %v", err)
	}
	if _, err := svc.Session(a.ID); err != nil {
		t.Errorf("recently used session evicted: %v", err)
	}
}

func TestService_SelectionSharedAcrossSessions(t *testing.T) {
	kv := newMemKV()
	svc := newTestService(t, ServiceOptions{Store: kv, SelectionKey: "sel"})
	ctx := context.Background()

	first := svc.NewSession()
	if _, err := first.LoadMaster(ctx, alsWorkbook(), svc.HierarchyOptions("")); err != nil {
		t.Fatal(err)
	}
	if _, err := first.Toggle(ctx, "WEEK1"); err != nil {
		t.Fatal(err)
	}
	if kv.value("sel") == "" {
		t.Fatal("selection not written under the configured key")
	}

	second := svc.NewSession()
	if _, err := second.LoadMaster(ctx, alsWorkbook(), svc.HierarchyOptions("")); err != nil {
		t.Fatal(err)
	}
	if got := second.Selection().Selected; len(got) != 1 || got[0] != "SCREEN" {
		t.Errorf("restored selection = %v", got)
	}
}

func TestService_PreferredMatrix(t *testing.T) {
	svc := newTestService(t, ServiceOptions{PreferredMatrix: "LOGS"})
	if svc.PreferredMatrix() != "LOGS" {
		t.Errorf("PreferredMatrix = %q", svc.PreferredMatrix())
	}
	sess := svc.NewSession()
	h, err := sess.LoadMaster(context.Background(), alsWorkbook(), svc.HierarchyOptions(""))
	if err != nil {
		t.Fatal(err)
	}
	if h.MatrixOID != "LOGS" {
		t.Errorf("MatrixOID = %q", h.MatrixOID)
	}

	if got := newTestService(t, ServiceOptions{}).PreferredMatrix(); got != DefaultMatrixOID {
		t.Errorf("default preferred = %q", got)
	}
}

func TestService_DiscoverMatrices(t *testing.T) {
	svc := newTestService(t, ServiceOptions{})

	got, err := svc.DiscoverMatrices(alsWorkbook())
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0] != (MatrixInfo{OID: "LOGS", Sheet: "Matrix#LOGS"}) {
		t.Errorf("matrices = %+v", got)
	}

	noMatrix := newGridWorkbook().add("Forms", []string{"FormOID"}, []string{"DM"})
	if _, err := svc.DiscoverMatrices(noMatrix); !errors.Is(err, ErrNoMatrix) {
		t.Errorf("err = %v, want ErrNoMatrix", err)
	}
}

func TestService_CompareOneShot(t *testing.T) {
	svc := newTestService(t, ServiceOptions{})
	c, ok := ParseCandidateText(sessionSSD)
	if !ok {
		t.Fatal("candidate not recognized")
	}

	res, err := svc.Compare(context.Background(), alsWorkbook(), "", c)
	if err != nil {
		t.Fatal(err)
	}
	if res.Hierarchy.MatrixOID != "MASTERDASHBOARD" || res.Diff.MissingInTarget.Pairs() != 1 {
		t.Errorf("result = %+v", res)
	}
	want := "Type,FolderName,FolderOID,FormName,FormOID,Source,Comment\n" +
		`"Missing","","SCREEN","","LB","SSD","Present in SSD only"` + "\n" +
		`"Extra","Screening","SCREEN","","AE","ALS","Present in ALS only"` + "\n"
	if got := res.Report(); got != want {
		t.Errorf("report =\n%s", got)
	}
	if svc.SessionCount() != 0 {
		t.Error("one-shot compare created a session")
	}

	if _, err := svc.Compare(context.Background(), alsWorkbook(), "NOPE", c); !errors.Is(err, ErrMatrixNotFound) {
		t.Errorf("err = %v", err)
	}
}

func TestService_SweepIdle(t *testing.T) {
	svc := newTestService(t, ServiceOptions{})
	stale := svc.NewSession()
	fresh := svc.NewSession()

	stale.mu.Lock()
	stale.lastUsed = time.Now().Add(-3 * time.Hour)
	stale.mu.Unlock()

	if n := svc.SweepIdle(time.Now(), 2*time.Hour); n != 1 {
		t.Errorf("SweepIdle closed %d, want 1", n)
	}
	if _, err := svc.Session(stale.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Error("stale session survived")
	}
	if _, err := svc.Session(fresh.ID); err != nil {
		t.Errorf("fresh session closed: %v", err)
	}
}

func TestService_StartSessionSweeper(t *testing.T) {
	svc := newTestService(t, ServiceOptions{})
	stale := svc.NewSession()
	stale.mu.Lock()
	stale.lastUsed = time.Now().Add(-time.Hour)
	stale.mu.Unlock()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		svc.StartSessionSweeper(ctx, SweepConfig{IdleTimeout: time.Minute, Interval: 5 * time.Millisecond})
		close(done)
	}()

	deadline := time.Now().Add(2 * time.Second)
	for svc.SessionCount() != 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	cancel()
	<-done

	if svc.SessionCount() != 0 {
		t.Errorf("SessionCount = %d after sweeping", svc.SessionCount())
	}
}

func TestService_Uploads(t *testing.T) {
	svc := newTestService(t, ServiceOptions{MaxConcurrentUploads: 1, UploadWait: 10 * time.Millisecond})
	ctx := context.Background()

	release, err := svc.AcquireUpload(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.AcquireUpload(ctx); !errors.Is(err, ErrTooManyUploads) {
		t.Errorf("err = %v, want ErrTooManyUploads", err)
	}
	if st := svc.UploadLimiterStatus(); st.Active != 1 || st.MaxConcurrent != 1 {
		t.Errorf("status = %+v", st)
	}
	release()
	if err := svc.WaitForUploads(ctx); err != nil {
		t.Errorf("WaitForUploads: %v", err)
	}
}
