// Package screenshot снимает страницу репозитория в headless Chrome.
package screenshot

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/chromedp"
)

const (
	Width  = 1280
	Height = 800

	contentSelector = "article, .markdown-body, #readme"
	userAgent       = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
)

type Shooter struct {
	timeout     time.Duration
	waitContent time.Duration
	settle      time.Duration
	// Пауза, если README так и не появился
	fallbackSettle time.Duration
	allocOpts      []chromedp.ExecAllocatorOption
}

func New(timeout time.Duration, opts ...chromedp.ExecAllocatorOption) *Shooter {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	allocOpts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	allocOpts = append(allocOpts,
		chromedp.UserAgent(userAgent),
		chromedp.WindowSize(Width, Height),
	)
	allocOpts = append(allocOpts, opts...)

	return &Shooter{
		timeout:        timeout,
		waitContent:    30 * time.Second,
		settle:         2 * time.Second,
		fallbackSettle: 5 * time.Second,
		allocOpts:      allocOpts,
	}
}

// Capture открывает url и возвращает PNG первого экрана. Если страница не
// загрузилась, пробует снять ее целиком
func (s *Shooter) Capture(ctx context.Context, url string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, s.allocOpts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	err := chromedp.Run(browserCtx,
		chromedp.EmulateViewport(Width, Height),
		chromedp.Navigate(url),
	)
	if err != nil {
		log.Printf("[ERROR] screenshot: failed to load %s: %v", url, err)

		var buf []byte
		if shotErr := chromedp.Run(browserCtx, chromedp.FullScreenshot(&buf, 100)); shotErr != nil {
			return nil, errors.Join(fmt.Errorf("load %s: %w", url, err), shotErr)
		}

		return buf, nil
	}

	s.waitForContent(browserCtx, url)

	var buf []byte
	if err := chromedp.Run(browserCtx, viewportShot(&buf)); err != nil {
		return nil, fmt.Errorf("capture %s: %w", url, err)
	}

	return buf, nil
}

func (s *Shooter) waitForContent(ctx context.Context, url string) {
	waitCtx, cancel := context.WithTimeout(ctx, s.waitContent)
	defer cancel()

	err := chromedp.Run(waitCtx,
		chromedp.WaitVisible(contentSelector, chromedp.ByQuery),
		chromedp.Sleep(s.settle),
	)
	if err == nil {
		return
	}

	log.Printf("[WARN] screenshot: content of %s did not show up: %v", url, err)

	_ = chromedp.Run(ctx, chromedp.Sleep(s.fallbackSettle))
}

// Снимок ровно первого экрана, без прокрутки
func viewportShot(buf *[]byte) chromedp.Tasks {
	return chromedp.Tasks{
		emulation.SetDeviceMetricsOverride(Width, Height, 1, false),
		chromedp.CaptureScreenshot(buf),
	}
}
