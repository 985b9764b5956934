package main

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/google/gops/agent"
	prefixed "github.com/matterbridge/logrus-prefixed-formatter"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"github.com/zyfking/rocketroom/config"
	"github.com/zyfking/rocketroom/pkg/rocketclient"
	"github.com/zyfking/rocketroom/roomcache"
	"github.com/zyfking/rocketroom/roomview"
)

var logger *logrus.Entry

func main() {
	flagConfig := pflag.String("conf", "rocketroom.toml", "config file")
	flagDebug := pflag.Bool("debug", false, "enable debug logging")
	flagRoom := pflag.String("room", "", "room id to open")
	pflag.Parse()

	rootLogger := logrus.New()
	rootLogger.SetFormatter(&prefixed.TextFormatter{
		PrefixPadding: 13,
		DisableColors: true,
	})
	logger = rootLogger.WithFields(logrus.Fields{"prefix": "main"})

	v, err := config.LoadConfig(*flagConfig)
	if err != nil {
		logger.Fatal(err)
	}

	if *flagDebug || v.GetBool("debug") {
		rootLogger.SetLevel(logrus.DebugLevel)
		logger.Info("enabling debug")
	}

	if v.GetBool("trace") {
		rootLogger.SetLevel(logrus.TraceLevel)
	}

	roomview.SetLogger(rootLogger.WithFields(logrus.Fields{"prefix": "roomview"}))

	if v.GetBool("gops") {
		if err := agent.Listen(agent.Options{}); err != nil {
			logger.Errorf("failed to start gops agent: %s", err)
		} else {
			defer agent.Close()
		}
	}

	store, err := roomcache.Open(v.GetString("cachepath"))
	if err != nil {
		logger.Fatalf("failed to open room cache: %s", err)
	}
	defer store.Close()

	client := rocketclient.New(&rocketclient.Credentials{
		UserID:        v.GetString("user.id"),
		Token:         v.GetString("user.token"),
		Server:        v.GetString("server"),
		NoTLS:         v.GetBool("insecure"),
		SkipTLSVerify: v.GetBool("skiptlsverify"),
	})
	client.PageSize = v.GetInt("pagesize")
	if *flagDebug || v.GetBool("debug") {
		client.SetLogLevel("debug")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// the realtime stream keeps the cache authoritative
	client.OnRoomChanged = func(room roomview.RoomRecord) {
		if err := store.PutRoom(room); err != nil {
			logger.Errorf("cache write: %s", err)
		}
	}
	client.OnRoomDeleted = func(rid string) {
		if err := store.DeleteRoom(rid); err != nil {
			logger.Errorf("cache delete: %s", err)
		}
	}

	if err := client.ServerAlive(ctx); err != nil {
		logger.Fatal(err)
	}

	go client.Listen(ctx)

	user := roomview.UserContext{
		ID:       v.GetString("user.id"),
		Username: v.GetString("user.name"),
		Token:    v.GetString("user.token"),
	}

	ctrl := roomview.NewController(*flagRoom, user, roomview.Deps{
		Cache:     store,
		Gateway:   client,
		Dispatch:  &logDispatcher{},
		Header:    &logHeader{},
		Renderer:  &logRenderer{},
		Navigator: &navigator{},
	}, roomview.Config{
		PageSize:         v.GetInt("pagesize"),
		PaginateDebounce: v.GetDuration("paginatedebounce"),
	})

	ctrl.Mount(ctx)
	ctrl.SetProps(roomview.Props{Foreground: true})

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	ctrl.Unmount()
}

type logDispatcher struct{}

func (logDispatcher) OpenRoom(room roomview.RoomRecord) {
	logger.Infof("open room %s (%s)", room.RID, room.Name)
}

func (logDispatcher) SetLastOpen(ts *int64) {
	if ts == nil {
		logger.Debug("clearing last-open marker")
		return
	}

	logger.Debugf("last-open marker at %d", *ts)
}

func (logDispatcher) ToggleReactionPicker(message *roomview.MessageRecord) {
	logger.Debug("toggling reaction picker")
}

func (logDispatcher) ActionsShow(message roomview.MessageRecord) {
	logger.Debugf("showing actions for message %s", message.ID)
}

func (logDispatcher) CloseRoom() {
	logger.Info("room closed")
}

type logHeader struct{}

func (logHeader) SetActions(actions []roomview.HeaderAction) {
	logger.Infof("header actions: %v", actions)
}

type logRenderer struct{}

func (logRenderer) Render(state roomview.ViewState, props roomview.Props) {
	logger.Debugf("render: loaded=%t joined=%t end=%t loadingMore=%t room=%s",
		state.Loaded, state.Joined, state.End, state.LoadingMore, state.Room.RID)
}

// navigator registers the heavyweight room actions screen on first use
// only.
type navigator struct {
	registerOnce sync.Once
}

func (n *navigator) PushRoomActions(rid string) {
	n.registerOnce.Do(func() {
		logger.Debug("registering room actions view")
	})

	logger.Infof("opening room actions for %s", rid)
}
