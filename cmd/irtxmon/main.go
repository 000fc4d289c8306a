package main

import (
	"context"
	"flag"
	"log"
	"strings"

	"github.com/robotalks/irtx/pkg/cli/sh"
	"github.com/robotalks/irtx/pkg/remote/connector"
	"github.com/robotalks/irtx/pkg/remote/mqtt"
	"github.com/robotalks/irtx/pkg/remote/msgs"
)

var rawTopics bool

func init() {
	connector.SetupFlags()
	flag.BoolVar(&rawTopics, "all", rawTopics, "Print every message under the MQTT prefix.")
}

// watchAll prints everything published under the prefix, decoding typed
// messages.
func watchAll(url string) {
	b, err := mqtt.NewBrokerFromURL(url)
	if err != nil {
		log.Fatalln(err)
	}
	if token := b.Connect(); token.Wait() && token.Error() != nil {
		log.Fatalln(token.Error())
	}
	b.Sub("#", func(topic string, payload []byte) {
		if strings.HasSuffix(topic, "/"+mqtt.MetaTopic) {
			log.Printf("%s: %s", topic, string(payload))
			return
		}
		typed, err := msgs.DecodeTyped(payload)
		if err != nil {
			log.Printf("%s: bad message: %v", topic, err)
			return
		}
		msg, err := typed.Decode()
		if err != nil {
			log.Printf("%s: decode error: (type_id=%x) %v", topic, typed.TypeId, err)
			return
		}
		log.Printf("%s: #%d %s", topic, typed.Sequence, sh.FormatResult(msg))
	})
	<-(chan struct{})(nil)
}

func main() {
	flag.Parse()
	log.SetFlags(log.Lmicroseconds)

	conf := connector.NewConfig()
	if rawTopics {
		watchAll(conf.URL)
		return
	}
	client, err := conf.Connect(context.Background())
	if err != nil {
		log.Fatalln(err)
	}
	client.OnEvent(func(msg msgs.Message) {
		log.Printf("%s: %s", conf.ID, sh.FormatResult(msg))
	})
	log.Fatalln(client.Run(context.Background()))
}
