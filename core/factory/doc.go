// Package factory provides a small generic registry used to instantiate modules
// from configuration. A module is described by a type string and a map of raw
// settings; the registered factory decodes the settings into a typed struct
// and returns the concrete implementation. Volume predictors and metrics sinks
// are both built this way.
//
// Example usage:
//
//	reg := factory.NewRegistry[prediction.VolumePredictor]()
//	reg.Register("constant", func(conf map[string]any) (prediction.VolumePredictor, error) {
//	    var c prediction.ConstantVolume
//	    if err := factory.Decode(conf, &c); err != nil {
//	        return nil, err
//	    }
//	    return c, nil
//	})
//	p, err := reg.Create(factory.ModuleConfig{Type: "constant", Conf: map[string]any{"volume": 900}})
package factory
