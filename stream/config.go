package stream

type Config struct {
	Mqtt struct {
		URL      string `yaml:"url"`
		Username string `yaml:"username"`
		Password string `yaml:"password"`
		Topics   struct {
			Stream string `yaml:"stream"`
			Events string `yaml:"events"`
		} `yaml:"topics"`
	} `yaml:"mqtt"`
	Strip struct {
		NumPixels int     `yaml:"numPixels"`
		FrameRate float64 `yaml:"frameRate"`
	} `yaml:"strip"`
	Playback struct {
		AnimationSecs  float64  `yaml:"animationSecs"`
		TransitionSecs float64  `yaml:"transitionSecs"`
		Documents      []string `yaml:"documents"`
	} `yaml:"playback"`
}
