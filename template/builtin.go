package template

func topBottom() []DefaultText {
	return []DefaultText{
		{Text: "Top text", XRatio: 0.5, YRatio: 0.12},
		{Text: "Bottom text", XRatio: 0.5, YRatio: 0.88},
	}
}

// Builtin 返回内置模板目录，图片路径相对于素材目录。
func Builtin() Catalog {
	return Catalog{Templates: []Descriptor{
		{
			Name:      "Drake Hotline Bling",
			ImagePath: "assets/templates/drake.jpg",
			DefaultTexts: []DefaultText{
				{Text: "Top text here", XRatio: 0.75, YRatio: 0.25},
				{Text: "Bottom text here", XRatio: 0.75, YRatio: 0.75},
			},
		},
		{Name: "Battle Machine", ImagePath: "assets/templates/battle-machine.jpg", DefaultTexts: topBottom()},
		{Name: "Best Meme Template", ImagePath: "assets/templates/best-meme-templates-04.jpeg", DefaultTexts: topBottom()},
		{Name: "Disappointed Guy", ImagePath: "assets/templates/disappointed-guy.jpg", DefaultTexts: topBottom()},
		{Name: "Pooh Bear", ImagePath: "assets/templates/pooh-bear.jpg", DefaultTexts: topBottom()},
		{
			Name:      "Press Both Buttons",
			ImagePath: "assets/templates/press-both-buttons.jpeg",
			DefaultTexts: []DefaultText{
				{Text: "Option A", XRatio: 0.3, YRatio: 0.2},
				{Text: "Option B", XRatio: 0.7, YRatio: 0.2},
			},
		},
		{Name: "Space Human", ImagePath: "assets/templates/space-human.jpeg", DefaultTexts: topBottom()},
		{Name: "Spongebob", ImagePath: "assets/templates/spongebob.jpg", DefaultTexts: topBottom()},
		{Name: "Winner", ImagePath: "assets/templates/winner.jpg", DefaultTexts: topBottom()},
		{Name: "Custom Meme", ImagePath: "assets/templates/meme-1770875450632.png", DefaultTexts: topBottom()},
	}}
}
