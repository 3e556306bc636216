package main

import (
	"fmt"
	"net/http"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/vidshare/backend/internal/dto"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show your watch history, most recent first",
	RunE: func(cmd *cobra.Command, args []string) error {
		return showHistory()
	},
}

var clearHistoryCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear your watch history",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := call(http.MethodDelete, "/api/v1/users/me/history", nil); err != nil {
			return err
		}
		fmt.Println("✓ Watch history cleared")
		return nil
	},
}

func init() {
	historyCmd.AddCommand(clearHistoryCmd)
}

func showHistory() error {
	var history dto.HistoryResponse
	body, err := call(http.MethodGet, "/api/v1/users/me/history", &history)
	if err != nil {
		return err
	}

	if output == "json" {
		fmt.Println(string(body))
		return nil
	}

	if history.Count == 0 {
		fmt.Println("No videos watched yet")
		return nil
	}

	fmt.Printf("\n📺 Watch History (%d)\n", history.Count)
	fmt.Printf("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n")
	for i, video := range history.Videos {
		fmt.Printf("%2d. %s\n", i+1, video.Title)
		fmt.Printf("    %s · %s views · %s\n", video.Owner.Username, humanize.Comma(video.Views), formatDuration(video.Duration))
		fmt.Printf("    id: %s\n", video.ID)
	}
	fmt.Printf("\n")
	return nil
}
