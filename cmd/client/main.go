// Command client drives the full ANGELLA workflow from a terminal: enter a
// submission, save the draft, hand off to the Polar checkout page, and —
// when re-run with the post-payment return URL — resume the draft and
// trigger the analysis, exactly as the web client does across its redirect.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"angella-backend/internal/client"
	"angella-backend/internal/draft"
	"angella-backend/internal/resume"
	"angella-backend/internal/submission"
)

func main() {
	var (
		serverURL = flag.String("server", "http://localhost:8080", "backend base URL")
		stateDir  = flag.String("state-dir", "", "directory for the saved draft (defaults to the user config dir)")

		photoPath = flag.String("photo", "", "path to the photo file")
		heightCm  = flag.Float64("height", 0, "height in cm")
		weightKg  = flag.Float64("weight", 0, "weight in kg")
		style     = flag.String("style", "", "preferred style: minimal, streetwear, casual, formal")
		color     = flag.String("color", "", "color preference: warm, cool, neutral, vibrant")
		occasions = flag.String("occasions", "", "comma-separated occasions: daily, office, date, party")
		productID = flag.String("product", os.Getenv("POLAR_PRODUCT_ID"), "Polar product ID")

		returnURL = flag.String("return", "", "return URL from the payment page; triggers resume instead of checkout")
	)
	flag.Parse()

	dir := *stateDir
	if dir == "" {
		configDir, err := os.UserConfigDir()
		if err != nil {
			log.Fatalf("failed to resolve config dir: %v", err)
		}
		dir = filepath.Join(configDir, "angella")
	}

	store := draft.NewStore(dir)
	api := client.New(*serverURL)
	controller := resume.NewController(store, api)
	ctx := context.Background()

	if *returnURL != "" {
		runResume(ctx, controller, *returnURL)
		return
	}

	runCheckout(ctx, controller, api, checkoutInput{
		photoPath: *photoPath,
		heightCm:  *heightCm,
		weightKg:  *weightKg,
		style:     *style,
		color:     *color,
		occasions: *occasions,
		productID: *productID,
	})
}

type checkoutInput struct {
	photoPath string
	heightCm  float64
	weightKg  float64
	style     string
	color     string
	occasions string
	productID string
}

func runCheckout(ctx context.Context, controller *resume.Controller, api *client.Client, in checkoutInput) {
	if in.photoPath == "" {
		log.Fatal("-photo is required")
	}
	if in.productID == "" {
		log.Fatal("-product (or POLAR_PRODUCT_ID) is required")
	}

	photo, err := submission.LoadPhotoFile(in.photoPath)
	if err != nil {
		log.Fatalf("failed to load photo: %v", err)
	}

	if err := controller.Advance(); err != nil { // Home -> Photo
		log.Fatalf("unexpected step: %v", err)
	}
	controller.SetPhoto(photo)
	controller.SetMetrics(in.heightCm, in.weightKg)
	if err := controller.Advance(); err != nil { // Photo -> Preferences
		log.Fatal("photo, height and weight are required before checkout")
	}

	if in.style != "" && !submission.ValidStyle(in.style) {
		log.Fatalf("unknown style %q", in.style)
	}
	if in.color != "" && !submission.ValidColorPreference(in.color) {
		log.Fatalf("unknown color preference %q", in.color)
	}
	var occasionList []string
	for _, o := range strings.Split(in.occasions, ",") {
		o = strings.TrimSpace(o)
		if o == "" {
			continue
		}
		if !submission.ValidOccasion(o) {
			log.Fatalf("unknown occasion %q", o)
		}
		occasionList = append(occasionList, o)
	}
	controller.SetPreferences(in.style, in.color, occasionList)

	// Draft first: a failed checkout must leave it in place for a retry.
	if err := controller.SaveDraft(); err != nil {
		log.Fatalf("failed to save draft: %v", err)
	}

	session, err := api.CreateCheckout(ctx, in.productID, "")
	if err != nil {
		log.Fatalf("checkout failed (your draft is saved, retry when ready): %v", err)
	}

	fmt.Println("Checkout session created:", session.CheckoutID)
	fmt.Println("Open this URL in your browser to pay:")
	fmt.Println("  " + session.CheckoutURL)
	fmt.Println()
	fmt.Println("After payment, run again with the return URL, e.g.:")
	fmt.Println("  client -return 'http://localhost:8080/?success=true'")
}

func runResume(ctx context.Context, controller *resume.Controller, returnURL string) {
	result, err := controller.HandleReturn(ctx, returnURL)
	if err != nil {
		if errors.Is(err, resume.ErrNoDraft) {
			fmt.Println("Payment return detected, but no saved draft was found.")
			fmt.Println("Please enter your details and start again.")
			return
		}
		if errors.Is(err, resume.ErrIncompleteDraft) {
			fmt.Println("Your saved draft is missing required fields; analysis was not started.")
			return
		}
		log.Fatalf("analysis failed: %v", err)
	}
	if result == nil {
		fmt.Println("No successful-payment indicator on that URL; nothing to resume.")
		return
	}

	fmt.Println(result.Report)

	name := fmt.Sprintf("angella-style-report-%d.md", time.Now().Unix())
	if err := os.WriteFile(name, []byte(result.Report), 0o644); err != nil {
		log.Printf("failed to save report: %v", err)
	} else {
		fmt.Println("\nReport saved to", name)
	}

	if result.HairstyleImage != "" {
		if _, data, err := submission.ParsePhotoDataURI(result.HairstyleImage); err == nil {
			imgName := fmt.Sprintf("angella-hairstyles-%d.png", time.Now().Unix())
			if err := os.WriteFile(imgName, data, 0o644); err == nil {
				fmt.Println("Hairstyle suggestions saved to", imgName)
			}
		}
	}
}
