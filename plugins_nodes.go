package ocif

// extensionPlugins returns the plugins that render the built-in extension
// types.
func extensionPlugins() []*Plugin {
	return []*Plugin{rectNodePlugin(), ovalNodePlugin(), pathNodePlugin()}
}

func shapeDefault(cfg Config) ShapeStyle {
	return ShapeStyle{
		StrokeWidth: cfg.StrokeWidth,
		StrokeColor: cfg.StrokeColor,
		FillColor:   cfg.FillColor,
	}
}

func rectNodePlugin() *Plugin {
	return &Plugin{
		Name: "rect-node",
		Extensions: func() []ExtensionDefinition {
			return []ExtensionDefinition{{
				Type:        ExtRect,
				DisplayName: "Rectangle",
				Render: func(p Painter, rc RenderContext) {
					ext, _ := rc.Extension.(RectExtension)
					p.Rect(rc.Node.Box(), rc.Node.Rotation, ext.ShapeStyle)
				},
				Default: func(cfg Config) Extension {
					return RectExtension{ShapeStyle: shapeDefault(cfg)}
				},
			}}
		},
	}
}

func ovalNodePlugin() *Plugin {
	return &Plugin{
		Name: "oval-node",
		Extensions: func() []ExtensionDefinition {
			return []ExtensionDefinition{{
				Type:        ExtOval,
				DisplayName: "Oval",
				Render: func(p Painter, rc RenderContext) {
					ext, _ := rc.Extension.(OvalExtension)
					p.Ellipse(rc.Node.Box(), rc.Node.Rotation, ext.ShapeStyle)
				},
				Default: func(cfg Config) Extension {
					return OvalExtension{ShapeStyle: shapeDefault(cfg)}
				},
			}}
		},
	}
}

func pathNodePlugin() *Plugin {
	return &Plugin{
		Name: "path-node",
		Extensions: func() []ExtensionDefinition {
			return []ExtensionDefinition{{
				Type:        ExtPath,
				DisplayName: "Path",
				Render: func(p Painter, rc RenderContext) {
					ext, ok := rc.Extension.(PathExtension)
					if !ok || ext.Path == "" {
						return
					}
					p.Path(rc.Node.Box(), rc.Node.Rotation, ext.Path, ShapeStyle{
						StrokeWidth: ext.StrokeWidth,
						StrokeColor: ext.StrokeColor,
						FillColor:   ext.FillColor,
					})
				},
				Default: func(cfg Config) Extension {
					return PathExtension{FillColor: cfg.PathFillColor}
				},
			}}
		},
	}
}
