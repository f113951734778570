package kite

// SpriteModule wires the 2D sprite renderer: extraction of sprite entities,
// vertex preparation and batching, queueing into the render phase and the
// final render pass. Requires WindowModule, AssetServerModule and
// CameraModule.
type SpriteModule struct {
	// Msaa is the multisample count; 0 and 1 both mean no multisampling.
	Msaa uint32
}

func (mod SpriteModule) Install(app *App, cmd *Commands) {
	samples := mod.Msaa
	if samples == 0 {
		samples = 1
	}
	app.Logger().Debugf("sprite renderer installed, msaa samples %d", samples)

	drawFunctions := NewDrawFunctions()
	drawFunctions.Register("sprite", drawSpriteBatch)

	meta := NewSpriteMeta()
	meta.log = app.Logger()

	cmd.AddResources(
		&ExtractedSprites{},
		&SpriteAssetEvents{},
		meta,
		NewSpritePipeline(),
		NewImageBindGroups(),
		NewRenderImages(),
		&RenderPhase{},
		drawFunctions,
		&Msaa{Samples: samples},
	)

	app.UseSystem(
		System(extractSpriteEventsSystem).
			InStage(Extract).
			RunAlways(),
	)
	app.UseSystem(
		System(extractSpritesSystem).
			InStage(Extract).
			RunAlways(),
	)
	// Uploads run ahead of preparation so batches only cover resident
	// textures.
	app.UseSystem(
		System(uploadTexturesSystem).
			InStage(Prepare).
			RunAlways(),
	)
	app.UseSystem(
		System(prepareSpritesSystem).
			InStage(Prepare).
			RunAlways(),
	)
	app.UseSystem(
		System(queueSpritesSystem).
			InStage(Queue).
			RunAlways(),
	)
	app.UseSystem(
		System(renderSystem).
			InStage(Render).
			RunAlways(),
	)
}
