package connector

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/irtx/pkg/remote/mqtt"
)

func TestNewConnector(t *testing.T) {
	cases := []struct {
		url    string
		direct bool
		err    bool
	}{
		{"mqtt://localhost:1883/irtx/", false, false},
		{"mqtts://localhost:8883/irtx/", false, false},
		{"ws://localhost:8080/irtx", true, false},
		{"irtx://10.0.0.2:7300", true, false},
		{"http://localhost", false, true},
	}
	for _, c := range cases {
		conf := &Config{URL: c.url}
		connector, err := conf.NewConnector()
		if c.err {
			require.Error(t, err, c.url)
			continue
		}
		require.NoError(t, err, c.url)
		if c.direct {
			require.IsType(t, &Direct{}, connector, c.url)
		} else {
			require.IsType(t, &mqtt.Connector{}, connector, c.url)
		}
	}
}

func TestDirectDiscover(t *testing.T) {
	connector, err := (&Config{URL: "irtx://10.0.0.2:7300"}).NewConnector()
	require.NoError(t, err)
	infos, err := connector.Discover(context.Background())
	require.NoError(t, err)
	require.Len(t, infos, 1)
	require.Equal(t, "10.0.0.2-7300", infos[0].ID)
}

func TestConnectRequiresID(t *testing.T) {
	_, err := (&Config{URL: "mqtt://localhost:1883/irtx/"}).Connect(context.Background())
	require.Error(t, err)
}
