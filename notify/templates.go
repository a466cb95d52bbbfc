package notify

import (
	"errors"
	"fmt"
	"strconv"
)

// Kind names a predefined SMS template.
type Kind string

const (
	KindGeneral          Kind = "general"
	KindCropReminder     Kind = "cropReminder"
	KindWeatherAlert     Kind = "weatherAlert"
	KindResourceLow      Kind = "resourceLow"
	KindDiseaseDetection Kind = "diseaseDetection"
	KindMarketPrice      Kind = "marketPrice"
)

// ErrUnknownKind is returned by Render for a kind without a template.
var ErrUnknownKind = errors.New("invalid SMS type")

// TemplateData carries the values the templates interpolate. Only the fields a
// kind uses need to be set.
type TemplateData struct {
	CropName         string  `json:"cropName"`
	DaysUntilHarvest float64 `json:"daysUntilHarvest"`
	Type             string  `json:"type"`
	Severity         string  `json:"severity"`
	ResourceName     string  `json:"resourceName"`
	DiseaseName      string  `json:"diseaseName"`
	Price            float64 `json:"price"`
	Message          string  `json:"message"`
}

// Render formats the message for kind. A non-empty custom message always uses
// the general template.
func Render(kind Kind, data TemplateData, custom string) (string, error) {
	if custom != "" {
		return general(custom), nil
	}
	switch kind {
	case KindGeneral:
		if data.Message == "" {
			return "", fmt.Errorf("%w: general message is empty", ErrUnknownKind)
		}
		return general(data.Message), nil
	case KindCropReminder:
		return fmt.Sprintf("🌾 FarmWise Alert: Your %s is %s days away from harvest. Prepare for harvesting!",
			data.CropName, num(data.DaysUntilHarvest)), nil
	case KindWeatherAlert:
		return fmt.Sprintf("⚠️ FarmWise Weather Alert: %s warning (%s). Take necessary precautions for your crops.",
			data.Type, data.Severity), nil
	case KindResourceLow:
		return fmt.Sprintf("📦 FarmWise Inventory: Your %s stock is running low. Consider restocking soon.",
			data.ResourceName), nil
	case KindDiseaseDetection:
		return fmt.Sprintf("🔬 FarmWise Alert: %s detected in your %s. Check your dashboard for treatment recommendations.",
			data.DiseaseName, data.CropName), nil
	case KindMarketPrice:
		return fmt.Sprintf("💰 FarmWise Market Update: %s current price is ₹%s/quintal. Good time to sell!",
			data.CropName, num(data.Price)), nil
	}
	return "", ErrUnknownKind
}

func general(msg string) string { return "🌱 FarmWise: " + msg }

func num(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }
