package main

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"
	"github.com/vidshare/backend/internal/dto"
)

var likeCmd = &cobra.Command{
	Use:   "like <video-id>",
	Short: "Like a video, or remove your like",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return toggle("/api/v1/videos/"+args[0]+"/like", "❤️  Liked", "Like removed")
	},
}

var subscribeCmd = &cobra.Command{
	Use:   "subscribe <channel-id>",
	Short: "Subscribe to a channel, or unsubscribe",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return toggle("/api/v1/channels/"+args[0]+"/subscribe", "🔔 Subscribed", "Unsubscribed")
	},
}

func toggle(path, onMessage, offMessage string) error {
	var result dto.ToggleResponse
	body, err := call(http.MethodPost, path, &result)
	if err != nil {
		return err
	}

	if output == "json" {
		fmt.Println(string(body))
		return nil
	}
	if result.Active {
		fmt.Println(onMessage)
	} else {
		fmt.Println(offMessage)
	}
	return nil
}
