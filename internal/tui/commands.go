package tui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fkgudeta/curio/internal/domain"
)

// Command factories for async operations

// DispatchCmd runs a route and reports its result
func DispatchCmd(d dispatcher, route domain.Route, mode navMode, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		res, err := d.Dispatch(ctx, route)
		if err != nil {
			return ErrMsg{Err: err, Context: describe(route)}
		}

		switch {
		case res.Playback != nil:
			return PlaybackResolvedMsg{Playback: res.Playback}
		case res.Folder != nil:
			return FolderLoadedMsg{Route: route, Folder: res.Folder, Mode: mode}
		default:
			return ActionDoneMsg{Route: route}
		}
	}
}

// LaunchCmd hands a resolved stream to the player
func LaunchCmd(l launcher, pb *domain.Playback) tea.Cmd {
	return func() tea.Msg {
		if err := l.Launch(pb.URL, pb.Subtitles); err != nil {
			return ErrMsg{Err: err, Context: "launching player"}
		}
		return PlayerLaunchedMsg{Title: pb.Item.Label}
	}
}

// ClearStatusCmd clears the status line after d
func ClearStatusCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return ClearStatusMsg{}
	})
}

// TickCmd drives the loading spinner
func TickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func describe(route domain.Route) string {
	if route.Name == domain.RouteIndex {
		return "loading home"
	}
	return fmt.Sprintf("loading %s", route.Name)
}
