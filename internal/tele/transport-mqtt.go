package tele

import (
	"context"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/juju/errors"
	"github.com/temoto/kiosk/helpers"
	"github.com/temoto/kiosk/log2"
)

type transportMqtt struct {
	log    *log2.Log
	m      mqtt.Client
	mopt   *mqtt.ClientOptions
	stopCh chan struct{}

	topicPrefix string
}

func (tm *transportMqtt) Init(ctx context.Context, log *log2.Log, teleConfig Config) error {
	tm.log = log
	mqttLog := tm.log.Clone(log2.LDebug)
	mqtt.CRITICAL = mqttLog
	mqtt.ERROR = mqttLog
	mqtt.WARN = mqttLog
	if teleConfig.LogDebug {
		mqtt.DEBUG = mqttLog
	}

	clientId := teleConfig.ClientPrefix
	if clientId == "" {
		clientId = "kiosk"
	}
	credFun := func() (string, string) {
		return clientId, teleConfig.Password
	}
	tm.topicPrefix = clientId
	tm.stopCh = make(chan struct{})

	networkTimeout := helpers.IntSecondDefault(teleConfig.NetworkTimeoutSec, defaultNetworkTimeout)
	if networkTimeout < 1*time.Second {
		networkTimeout = 1 * time.Second
	}
	connectTimeout := networkTimeout * 3
	keepaliveTimeout := helpers.IntSecondDefault(teleConfig.KeepaliveSec, networkTimeout/2)

	defaultHandler := func(_ mqtt.Client, msg mqtt.Message) {
		tm.log.Errorf("unexpected mqtt message: %v", msg)
	}

	willTopic := fmt.Sprintf("%s/w/online", tm.topicPrefix)
	tm.mopt = mqtt.NewClientOptions().
		AddBroker(teleConfig.Broker).
		SetAutoReconnect(true).
		SetBinaryWill(willTopic, []byte("0"), 1, true).
		SetCleanSession(false).
		SetClientID(clientId).
		SetConnectTimeout(connectTimeout).
		SetCredentialsProvider(credFun).
		SetDefaultPublishHandler(defaultHandler).
		SetKeepAlive(keepaliveTimeout).
		SetMaxReconnectInterval(connectTimeout).
		SetOrderMatters(false).
		SetPingTimeout(networkTimeout).
		SetWriteTimeout(networkTimeout)
	tm.m = mqtt.NewClient(tm.mopt)

	go tm.online(willTopic)
	return nil
}

func (tm *transportMqtt) Close() {
	close(tm.stopCh)
	tm.m.Disconnect(uint(tm.mopt.PingTimeout / time.Millisecond))
}

func (tm *transportMqtt) SendState(stationName string, payload []byte) bool {
	topic := fmt.Sprintf("%s/w/%s/state", tm.topicPrefix, stationName)
	t := tm.m.Publish(topic, 1, true, payload)
	return tm.tokenWait(t, "publish state") == nil
}

func (tm *transportMqtt) SendEvent(stationName string, payload []byte) bool {
	topic := fmt.Sprintf("%s/w/%s/event", tm.topicPrefix, stationName)
	t := tm.m.Publish(topic, 1, false, payload)
	return tm.tokenWait(t, "publish event") == nil
}

func (tm *transportMqtt) online(willTopic string) {
	for tm.isRunning() {
		t := tm.m.Connect()
		if tm.tokenWait(t, "connect") == nil {
			break // success path
		}
		time.Sleep(1 * time.Second)
	}
	if tm.isRunning() {
		t := tm.m.Publish(willTopic, 1, true, []byte("1"))
		_ = tm.tokenWait(t, "publish online")
	}
}

func (tm *transportMqtt) isRunning() bool {
	select {
	case <-tm.stopCh:
		return false
	default:
		return true
	}
}

func (tm *transportMqtt) tokenWait(t mqtt.Token, tag string) error {
	if !t.Wait() {
		err := errors.Errorf("%s timeout", tag)
		tm.log.Errorf("tele: MQTT %s", err.Error())
		return err
	}
	if err := t.Error(); err != nil {
		err = errors.Annotate(err, tag)
		tm.log.Errorf("tele: MQTT %s", err.Error())
		return err
	}
	return nil
}
