// Package factory builds configurable modules, such as metrics sinks, from a
// type string and a map of raw settings. Factories decode the settings into
// typed structs with Decode and return the concrete implementation.
//
//	reg := factory.NewRegistry[metrics.BalanceRecorder]()
//	_ = reg.Register("influx", func(conf map[string]any) (metrics.BalanceRecorder, error) {
//	    var c struct{ URL string `json:"url"` }
//	    if err := factory.Decode(conf, &c); err != nil {
//	        return nil, err
//	    }
//	    return newInflux(c.URL), nil
//	})
//	sink, err := reg.Create(factory.ModuleConfig{Type: "influx", Conf: map[string]any{"url": "http://influx:8086"}})
package factory
