package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"video-svc/pkg/file"
	"video-svc/pkg/helper"
)

const LIMIT = 5

// LikeProgress counts outcomes of the concurrent like burst.
type LikeProgress struct {
	mu        sync.RWMutex
	total     int
	succeeded int
	rejected  int
	failed    int
}

func (p *LikeProgress) record(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	var apiErr *apiError
	switch {
	case err == nil:
		p.succeeded++
	case errors.As(err, &apiErr) && apiErr.Status == 400:
		p.rejected++
	default:
		p.failed++
	}
}

func (p *LikeProgress) GetProgress() (succeeded, rejected, failed, total int) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.succeeded, p.rejected, p.failed, p.total
}

func main() {
	server := flag.String("server", "http://localhost:8080", "Server base URL")
	action := flag.String("action", "list", "create | list | like | unlike | likedby | upload | download | burst")
	userHeader := flag.String("user-header", "X-User", "Caller identity header")
	user := flag.String("user", "", "Caller identity for like/unlike")
	id := flag.Int64("id", 0, "Video ID")
	title := flag.String("title", "", "Video title (create)")
	duration := flag.Int64("duration", 0, "Video duration (create)")
	filePath := flag.String("file", "", "Local file for upload/download")
	requests := flag.Int("n", 20, "Number of concurrent likes (burst)")
	expectSum := flag.String("sha256", "", "Expected checksum of the downloaded file (download)")
	flag.Parse()

	client := newAPIClient(*server, *userHeader)

	var err error
	switch *action {
	case "create":
		err = printResult(client.CreateVideo(*title, *duration))
	case "list":
		err = printResult(client.ListVideos())
	case "like":
		err = client.Like(*id, *user)
	case "unlike":
		err = client.Unlike(*id, *user)
	case "likedby":
		err = printResult(client.LikedBy(*id))
	case "upload":
		err = upload(client, *id, *filePath)
	case "download":
		err = download(client, *id, *filePath, *expectSum)
	case "burst":
		err = burst(client, *id, *user, *requests)
	default:
		log.Fatalf("bilinmeyen action: %s", *action)
	}
	if err != nil {
		log.Fatalf("%s başarısız: %v", *action, err)
	}
}

func printResult(v any, err error) error {
	if err != nil {
		return err
	}
	fmt.Printf("%+v\n", v)
	return nil
}

func upload(client *apiClient, id int64, path string) error {
	if !helper.IsVideoFile(path) {
		log.Printf("UYARI: %s video uzantısı taşımıyor, application/octet-stream olarak saklanacak", path)
	}
	sum, err := file.CalculateFileHash(path)
	if err != nil {
		return err
	}
	status, err := client.UploadData(id, path)
	if err != nil {
		return err
	}
	fmt.Printf("state=%s sha256=%s\n", status.State, sum)
	return nil
}

func download(client *apiClient, id int64, path, expectSum string) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("dosya oluşturulamadı: %w", err)
	}
	if err := client.DownloadData(id, out); err != nil {
		out.Close()
		os.Remove(path)
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	if err := file.ValidateFileHash(path, expectSum); err != nil {
		return err
	}
	sum, err := file.CalculateFileHash(path)
	if err != nil {
		return err
	}
	fmt.Printf("%s yazıldı, sha256=%s\n", path, sum)
	return nil
}

// burst fires n identical likes at once; the server must accept exactly one.
func burst(client *apiClient, id int64, user string, n int) error {
	sem := make(chan struct{}, LIMIT)
	var wg sync.WaitGroup
	progress := &LikeProgress{total: n}
	start := time.Now()

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			progress.record(client.Like(id, user))
		}()
	}
	wg.Wait()

	succeeded, rejected, failed, total := progress.GetProgress()
	fmt.Printf("%d istek, %v: %d başarılı, %d reddedildi, %d hata\n",
		total, time.Since(start).Round(time.Millisecond), succeeded, rejected, failed)
	if failed > 0 {
		return fmt.Errorf("%d istek hata ile döndü", failed)
	}
	if succeeded > 1 {
		return fmt.Errorf("aynı kullanıcı için %d beğeni kabul edildi", succeeded)
	}
	return nil
}
