package recipe

import "vitaspoon/internal/pkg/common"

const (
	mealBreakfast = "Desayuno"
	mealLunch     = "Almuerzo"
	mealSnack     = "Merienda"
	mealDinner    = "Cena"
	mealDessert   = "Postre"
	mealAppetizer = "Snack"

	dietVegetarian = "Vegetariana"
	dietVegan      = "Vegana"
	dietHighProt   = "Alto en proteínas"
	dietLowCarb    = "Bajo en carbohidratos"
	dietLowFat     = "Bajo en grasas"
)

// 各餐別的基礎食材
var cuisineIngredients = map[string][]common.Ingredient{
	mealBreakfast: {
		{Name: "pan integral", Quantity: "2", Unit: "rebanadas"},
		{Name: "aguacate", Quantity: "1", Unit: "unidad"},
		{Name: "huevos", Quantity: "2", Unit: "unidades"},
		{Name: "sal", Quantity: "1", Unit: "pizca"},
		{Name: "pimienta", Quantity: "1", Unit: "pizca"},
		{Name: "aceite de oliva", Quantity: "1", Unit: "cucharada"},
		{Name: "jugo de limón", Quantity: "1", Unit: "cucharadita"},
	},
	mealLunch: {
		{Name: "garbanzos cocidos", Quantity: "1", Unit: "taza"},
		{Name: "tomates cherry", Quantity: "1", Unit: "taza"},
		{Name: "pepino", Quantity: "1/2", Unit: "unidad"},
		{Name: "cebolla roja", Quantity: "1/4", Unit: "unidad"},
		{Name: "aceitunas negras", Quantity: "1/4", Unit: "taza"},
		{Name: "aceite de oliva", Quantity: "2", Unit: "cucharadas"},
		{Name: "limón", Quantity: "1/2", Unit: "unidad"},
		{Name: "orégano", Quantity: "1", Unit: "cucharadita"},
	},
	mealSnack: {
		{Name: "plátano", Quantity: "1", Unit: "unidad"},
		{Name: "fresas", Quantity: "1", Unit: "taza"},
		{Name: "yogur natural", Quantity: "1/2", Unit: "taza"},
		{Name: "miel", Quantity: "1", Unit: "cucharada"},
		{Name: "avena", Quantity: "2", Unit: "cucharadas"},
		{Name: "leche de almendras", Quantity: "1", Unit: "taza"},
	},
	mealDinner: {
		{Name: "pasta", Quantity: "200", Unit: "g"},
		{Name: "pechuga de pollo", Quantity: "1", Unit: "unidad"},
		{Name: "salsa pesto", Quantity: "3", Unit: "cucharadas"},
		{Name: "tomates cherry", Quantity: "1", Unit: "taza"},
		{Name: "queso parmesano", Quantity: "2", Unit: "cucharadas"},
		{Name: "aceite de oliva", Quantity: "1", Unit: "cucharada"},
		{Name: "sal y pimienta", Quantity: "", Unit: "al gusto"},
	},
	mealDessert: {
		{Name: "manzanas", Quantity: "4", Unit: "unidades"},
		{Name: "masa quebrada", Quantity: "1", Unit: "lámina"},
		{Name: "azúcar", Quantity: "1/2", Unit: "taza"},
		{Name: "canela", Quantity: "1", Unit: "cucharadita"},
		{Name: "mantequilla", Quantity: "2", Unit: "cucharadas"},
		{Name: "limón", Quantity: "1/2", Unit: "unidad"},
	},
	mealAppetizer: {
		{Name: "garbanzos cocidos", Quantity: "1", Unit: "lata"},
		{Name: "tahini", Quantity: "2", Unit: "cucharadas"},
		{Name: "ajo", Quantity: "1", Unit: "diente"},
		{Name: "limón", Quantity: "1", Unit: "unidad"},
		{Name: "aceite de oliva", Quantity: "3", Unit: "cucharadas"},
		{Name: "pimentón", Quantity: "1/2", Unit: "cucharadita"},
		{Name: "zanahorias", Quantity: "2", Unit: "unidades"},
		{Name: "apio", Quantity: "2", Unit: "tallos"},
		{Name: "pepino", Quantity: "1", Unit: "unidad"},
	},
}

// 各餐別的預設步驟
var cuisineInstructions = map[string][]string{
	mealBreakfast: {
		"Tuesta el pan hasta que esté dorado.",
		"Machaca el aguacate en un tazón y agrega sal, pimienta y jugo de limón.",
		"Extiende el aguacate sobre las tostadas.",
		"En una sartén, fríe los huevos al gusto.",
		"Coloca los huevos sobre las tostadas de aguacate.",
		"Agrega más sal y pimienta al gusto.",
	},
	mealLunch: {
		"Enjuaga y escurre los garbanzos.",
		"Corta los tomates cherry por la mitad.",
		"Pela y corta el pepino en cubos pequeños.",
		"Pica finamente la cebolla roja.",
		"En un bol grande, combina los garbanzos, tomates, pepino, cebolla y aceitunas.",
		"En un recipiente pequeño, mezcla el aceite de oliva, el jugo de limón y el orégano.",
		"Vierte el aderezo sobre la ensalada y mezcla bien.",
		"Sirve inmediatamente o refrigera por 30 minutos para que los sabores se integren.",
	},
	mealSnack: {
		"Pela el plátano y córtalo en trozos.",
		"Lava y quita el tallo de las fresas.",
		"Coloca todos los ingredientes en una licuadora.",
		"Licúa hasta obtener una mezcla suave.",
		"Sirve inmediatamente.",
	},
	mealDinner: {
		"Cuece la pasta según las instrucciones del paquete.",
		"Corta la pechuga de pollo en cubos y sazona con sal y pimienta.",
		"En una sartén, calienta el aceite y cocina el pollo hasta que esté dorado.",
		"Corta los tomates cherry por la mitad.",
		"Escurre la pasta y mezcla con la salsa pesto.",
		"Agrega el pollo y los tomates a la pasta.",
		"Sirve caliente con queso parmesano rallado por encima.",
	},
	mealDessert: {
		"Precalienta el horno a 180°C.",
		"Pela y corta las manzanas en rodajas finas.",
		"Mezcla las manzanas con el azúcar, la canela y el zumo de medio limón.",
		"Extiende la masa quebrada en un molde para tarta.",
		"Coloca las manzanas sobre la masa.",
		"Añade pequeños trozos de mantequilla sobre las manzanas.",
		"Hornea durante 40-45 minutos hasta que la masa esté dorada.",
		"Deja enfriar antes de servir.",
	},
	mealAppetizer: {
		"Escurre y enjuaga los garbanzos.",
		"En un procesador de alimentos, mezcla los garbanzos, tahini, ajo picado y el jugo de limón.",
		"Mientras procesas, añade el aceite de oliva gradualmente hasta conseguir una textura suave.",
		"Sazona con sal y pimienta al gusto.",
		"Sirve en un bol, haz un hueco en el centro y añade un poco de aceite de oliva y pimentón.",
		"Lava y corta las verduras en bastones para acompañar.",
	},
}

// 無電力時的步驟（碳烤架）
var (
	grillGeneral = []string{
		"Prepara la parrilla de carbón: coloca los carbones en una pirámide y enciéndelos.",
		"Espera hasta que los carbones estén cubiertos de ceniza blanca (aproximadamente 20-30 minutos).",
		"Distribuye los carbones de manera uniforme para tener zonas de calor directo e indirecto.",
		"Coloca la rejilla y límpiala con un cepillo de alambre.",
		"Deja que la rejilla se caliente durante 5 minutos antes de cocinar.",
	}
	grillProtein = []string{
		"Sazona la proteína con sal, pimienta y especias al gusto.",
		"Coloca la carne sobre la zona de calor directo para sellarla (2-3 minutos por lado).",
		"Mueve la carne a la zona de calor indirecto para terminar la cocción sin quemarla.",
		"Usa un termómetro para comprobar la cocción si es posible.",
		"Deja reposar la carne 5-10 minutos antes de cortarla.",
	}
	grillVegetables = []string{
		"Corta los vegetales en trozos grandes para evitar que se caigan entre la rejilla.",
		"Pincela los vegetales con aceite y sazona con sal y pimienta.",
		"Coloca los vegetales sobre la parrilla caliente.",
		"Cocina hasta que estén tiernos pero aún crujientes.",
		"Voltea ocasionalmente para que se cocinen de manera uniforme.",
	}
	grillRice = []string{
		"Necesitarás papel de aluminio resistente para cocinar arroz en la parrilla.",
		"Lava el arroz hasta que el agua salga clara.",
		"Coloca el arroz en el centro de un trozo grande de papel aluminio.",
		"Añade agua (proporción 1:2 arroz-agua), sal y especias.",
		"Cierra el papel aluminio formando un paquete sellado.",
		"Coloca sobre la parrilla en calor indirecto y cocina 20-25 minutos.",
		"Deja reposar 5 minutos antes de abrir.",
	}
)

// 依可用食材組合的步驟
var (
	riceProteinSteps = []string{
		"Lava el arroz hasta que el agua salga clara.",
		"Corta la carne en trozos pequeños.",
		"En una olla, calienta el aceite a fuego medio-alto.",
		"Sofríe la carne hasta que esté dorada.",
		"Añade los condimentos y mezcla bien.",
		"Agrega el arroz y remueve para que se impregne de los sabores.",
		"Vierte agua caliente (2 partes de agua por cada parte de arroz).",
		"Lleva a ebullición, luego reduce el fuego y tapa la olla.",
		"Cocina a fuego lento por 15-20 minutos hasta que el arroz esté tierno.",
		"Deja reposar 5 minutos antes de servir.",
	}
	riceVegetableSteps = []string{
		"Lava el arroz hasta que el agua salga clara.",
		"Corta los vegetales en trozos pequeños.",
		"En una olla, calienta el aceite a fuego medio.",
		"Sofríe los vegetales hasta que estén tiernos.",
		"Añade los condimentos y mezcla bien.",
		"Agrega el arroz y remueve para que se impregne de los sabores.",
		"Vierte agua caliente (2 partes de agua por cada parte de arroz).",
		"Lleva a ebullición, luego reduce el fuego y tapa la olla.",
		"Cocina a fuego lento por 15-20 minutos hasta que el arroz esté tierno.",
		"Deja reposar 5 minutos antes de servir.",
	}
	proteinSteps = []string{
		"Corta la carne en trozos del tamaño deseado.",
		"Sazona la carne con sal, pimienta y tus especias preferidas.",
		"En una sartén, calienta el aceite a fuego medio-alto.",
		"Cocina la carne hasta que esté dorada por todos lados.",
		"Si tienes vegetales, añádelos ahora y cocina hasta que estén tiernos.",
		"Ajusta la sazón según tu gusto.",
		"Sirve caliente, acompañado de tu guarnición preferida.",
	}
	plantMainSteps = []string{
		"Lava y corta todos los vegetales en trozos regulares.",
		"Calienta aceite en una sartén grande a fuego medio-alto.",
		"Saltea los vegetales comenzando por los más duros (zanahorias, etc).",
		"Añade los vegetales más blandos (pimientos, etc) y cocina 3-4 minutos más.",
		"Añade las especias, sal y pimienta al gusto.",
	}
)

const (
	noElectricityNote = "Esta receta ha sido diseñada para prepararse sin necesidad de utilizar electrodomésticos o cocina eléctrica."
	grillNote         = " Esta receta está optimizada para preparación en parrilla de carbón."
	personalizedNote  = "Esta receta ha sido personalizada con tus ingredientes: %s. Ajusta las cantidades según tu preferencia."
)

// 無電力時非正餐的步驟
var noElectricityInstructions = map[string][]string{
	mealBreakfast: {
		"Corta el aguacate por la mitad y extrae la pulpa en un bol.",
		"Machaca con un tenedor hasta obtener una consistencia suave.",
		"Añade sal, pimienta y jugo de limón al gusto.",
		"Unta sobre las rebanadas de pan.",
		"Si tienes parrilla de carbón, puedes tostar el pan brevemente sobre ella.",
		"Agrega tus toppings favoritos por encima.",
	},
	mealSnack: {
		"Lava y corta las frutas en trozos pequeños.",
		"Combina todas las frutas en un bol.",
		"Añade cereales, frutos secos o semillas si los tienes disponibles.",
		"Opcional: añade un poco de miel o algún edulcorante natural.",
		"Si tienes parrilla encendida, puedes asar algunas frutas como manzanas o plátanos para darles un sabor ahumado.",
		"Mezcla bien y sirve fresco.",
	},
	mealDessert: {
		"Pela y corta las frutas en trozos medianos.",
		"Si usas parrilla de carbón, envuelve las frutas en papel aluminio con un poco de azúcar y canela.",
		"Coloca el paquete en la parrilla con calor indirecto por 10-15 minutos.",
		"Alternativamente, puedes asar frutas como plátanos o manzanas directamente sobre la parrilla.",
		"Sirve caliente, opcionalmente con un poco de miel por encima.",
	},
}

var dietNotes = map[string]string{
	dietLowCarb:  "Recuerda que esta receta es baja en carbohidratos. Evita añadir pan, arroz, pasta o azúcares refinados.",
	dietHighProt: "Para aumentar el contenido proteico, puedes añadir más huevos, carnes magras, pescado o legumbres a la receta.",
	dietLowFat:   "Esta receta es baja en grasas. Si utilizas aceite, hazlo con moderación o usa spray antiadherente.",
}

// 無特定食材時依餐別決定標題
var cuisineTitles = map[string]string{
	mealBreakfast: "Desayuno Especial",
	mealLunch:     "Almuerzo Criollo",
	mealDinner:    "Cena Ligera",
	mealSnack:     "Merienda Energética",
	mealDessert:   "Postre Casero",
	mealAppetizer: "Aperitivo Rápido",
}

const (
	vegetarianBreakfastTitle = "Tostadas de Vegetales"
	unknownCuisineTitle      = "Plato Personalizado"
	noCuisineTitle           = "Receta Personalizada"
	grillMarker              = "(Parrilla)"
)

func isMainMeal(cuisine string) bool {
	return cuisine == mealLunch || cuisine == mealDinner
}

func isPlantBased(diet string) bool {
	return diet == dietVegetarian || diet == dietVegan
}

func joinSteps(parts ...[]string) []string {
	var out []string
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}
