package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/compose-report/reportsync/internal/client/models"
	"github.com/compose-report/reportsync/internal/filex"
)

func (a *App) list(ctx context.Context) {
	reports, err := a.reports.ListByOwner(ctx)
	if err != nil {
		log.Printf("Error: %s", err.Error())
		return
	}

	for _, r := range reports {
		fmt.Printf("%s  %s  [%s]  %d image(s)\n",
			r.ID, r.Date.Format("2006-01-02"), r.Mood, len(r.Images))
	}
}

func (a *App) show(ctx context.Context) {
	id, err := GetSimpleText(a.reader, "Enter report id to show", os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}

	report, gallery, err := a.reports.Load(ctx, id)
	if err != nil {
		log.Printf("Error: %s", err.Error())
		return
	}

	fmt.Println(report.Title)
	fmt.Printf("Mood: %s  Date: %s\n", report.Mood, report.Date.Format(time.RFC1123))
	if report.Description != "" {
		fmt.Println(report.Description)
	}
	for _, img := range gallery.Images {
		fmt.Printf("  %s\n    %s\n", img.RemotePath, img.LocalURI)
	}
}

func (a *App) newReport(ctx context.Context) {
	title, err := GetSimpleText(a.reader, "Enter title", os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}

	description, err := GetMultiline(a.reader, "Enter description", os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}

	mood, err := GetSimpleText(a.reader, "Enter mood (Neutral, Happy, Angry, Bored, Calm, Tense)", os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}

	images, err := GetLines(a.reader, "Enter image file paths", os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}

	gallery := &models.GalleryState{}
	for _, path := range images {
		if _, err := filex.Size(path); err != nil {
			log.Printf("Skipping unreadable file %s: %s", path, err.Error())
			continue
		}
		if _, err := a.reports.AttachImage(ctx, gallery, path); err != nil {
			log.Printf("Error attaching %s: %s", path, err.Error())
			return
		}
	}

	report := &models.Report{
		Title:       title,
		Description: description,
		Mood:        models.ParseMood(mood),
		Date:        time.Now().UTC(),
	}

	if err := a.reports.Save(ctx, report, gallery); err != nil {
		log.Printf("Error: %s", err.Error())
		return
	}
	fmt.Printf("Saved report %s\n", report.ID)
}

func (a *App) delete(ctx context.Context) {
	id, err := GetSimpleText(a.reader, "Enter report id to delete", os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}

	report, _, err := a.reports.Load(ctx, id)
	if err != nil {
		log.Printf("Error: %s", err.Error())
		return
	}

	if err := a.reports.Delete(ctx, report); err != nil {
		log.Printf("Error: %s", err.Error())
		return
	}
	fmt.Println("Deleted.")
}
