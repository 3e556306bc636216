package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/vidshare/backend/internal/dto"
)

var videoCmd = &cobra.Command{
	Use:   "video",
	Short: "Inspect videos",
}

var getVideoCmd = &cobra.Command{
	Use:   "get <video-id>",
	Short: "Show a video and record a view",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return getVideo(args[0])
	},
}

func init() {
	videoCmd.AddCommand(getVideoCmd)
}

func formatDuration(seconds float64) string {
	d := time.Duration(seconds * float64(time.Second)).Round(time.Second)
	return d.String()
}

func getVideo(videoID string) error {
	var detail dto.VideoDetail
	body, err := call(http.MethodGet, "/api/v1/videos/"+videoID, &detail)
	if err != nil {
		return err
	}

	if output == "json" {
		fmt.Println(string(body))
		return nil
	}

	fmt.Printf("\n🎬 %s\n", detail.Title)
	fmt.Printf("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n")
	fmt.Printf("Channel: %s (%s subscribers)", detail.Owner.Username, humanize.Comma(detail.Owner.SubscriberCount))
	if detail.Owner.IsSubscribed {
		fmt.Printf(" ✓ subscribed")
	}
	fmt.Printf("\n")
	fmt.Printf("Views: %s · %s\n", humanize.Comma(detail.Views), detail.Age)
	fmt.Printf("Duration: %s\n", formatDuration(detail.Duration))

	liked := ""
	if detail.IsLiked {
		liked = " (you liked this)"
	}
	fmt.Printf("Likes: %s%s\n", humanize.Comma(detail.LikeCount), liked)
	if !detail.IsPublished {
		fmt.Printf("Status: 🔒 unpublished\n")
	}
	if detail.Partial {
		fmt.Printf("⚠️  Some counts are temporarily unavailable\n")
	}
	if detail.Description != "" {
		fmt.Printf("\n%s\n", detail.Description)
	}
	fmt.Printf("\n")
	return nil
}
