//go:build esp32

// esp32-recorder is a one-button voice recorder for an ESP32 with an
// INMP441 microphone and a 128x64 SSD1306 OLED.
//
// Press BOOT to record, press again to stop. A short press plays the last
// recording back, a long press records over it.
//
// Wiring:
//
//	INMP441 SCK -> GPIO25, WS -> GPIO26, SD -> GPIO27, L/R -> GND
//	SSD1306 SCL -> GPIO22, SDA -> GPIO21
//	speaker     -> GPIO23
//	status LED  -> GPIO2
package main

import (
	"context"
	"log/slog"
	"machine"
	"os"
	"time"

	"tinygo.org/x/drivers/ssd1306"

	"github.com/tinygo-org/i2smic/display"
	"github.com/tinygo-org/i2smic/mic"
	"github.com/tinygo-org/i2smic/mic/espidf"
	"github.com/tinygo-org/i2smic/recorder"
)

var (
	statusLED  = machine.GPIO2
	bootButton = machine.GPIO34
	sclPin     = machine.GPIO22
	sdaPin     = machine.GPIO21
	speakerPin = machine.GPIO23
)

func main() {
	time.Sleep(500 * time.Millisecond)
	if err := run(); err != nil {
		println("esp32-recorder:", err.Error())
	}
	for {
		time.Sleep(time.Second)
	}
}

func run() error {
	log := slog.New(slog.NewTextHandler(os.Stdout, nil))

	statusLED.Configure(machine.PinConfig{Mode: machine.PinOutput})
	statusLED.Low()
	bootButton.Configure(machine.PinConfig{Mode: machine.PinInput})
	speakerPin.Configure(machine.PinConfig{Mode: machine.PinOutput})

	err := machine.I2C0.Configure(machine.I2CConfig{
		SCL:       sclPin,
		SDA:       sdaPin,
		Frequency: 400 * machine.KHz,
	})
	if err != nil {
		return err
	}
	oled := ssd1306.NewI2C(machine.I2C0)
	oled.Configure(ssd1306.Config{
		Address: ssd1306.Address_128_32,
		Width:   128,
		Height:  64,
	})
	oled.ClearDisplay()
	screen := display.New(&oled)
	screen.Message("ESP32", "Audio System Ready")

	rx := mic.New(espidf.Driver{})
	rx.SetLogger(log)
	if err := rx.Init(mic.DefaultConfig()); err != nil {
		screen.Message("Error", "Mic init failed")
		return err
	}
	defer rx.Deinit()
	time.Sleep(2 * time.Second)

	rec := recorder.New(rx, screen, statusLED, recorder.DefaultConfig())
	rec.SetBeeper(pinBeeper{speakerPin})
	rec.SetLogger(log)

	// Run only returns once the microphone stops delivering; the deferred
	// Deinit then releases the I2S controller.
	err = rec.Run(context.Background(), bootButton)
	screen.Message("Error", "Mic failed")
	return err
}

// pinBeeper toggles a GPIO to drive a piezo speaker.
type pinBeeper struct {
	pin machine.Pin
}

func (b pinBeeper) Beep(freq int, d time.Duration) {
	if freq <= 0 {
		return
	}
	half := time.Second / time.Duration(freq) / 2
	for start := time.Now(); time.Since(start) < d; {
		b.pin.High()
		time.Sleep(half)
		b.pin.Low()
		time.Sleep(half)
	}
}
